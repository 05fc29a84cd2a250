/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package graph

import (
	"fmt"

	"bennypowers.dev/fob/fs"
)

// ModuleIDConversionError reports a collected path that could not be minted
// into a ModuleID.
type ModuleIDConversionError struct {
	Path string
	Err  error
}

func (e *ModuleIDConversionError) Error() string {
	return fmt.Sprintf("module id conversion failed for %q: %v", e.Path, e.Err)
}

func (e *ModuleIDConversionError) Unwrap() error {
	return e.Err
}

// SymbolAnalyzer runs the semantic pass over a module's source, producing its
// symbol table. The parser adapter provides the implementation; conversion
// only depends on the signature.
type SymbolAnalyzer func(path string, code string, sourceType SourceType) (*SymbolTable, error)

// FromCollection converts a collection state into a module graph.
//
// Conversion runs in two passes: mint ids for every non-external module, then
// materialize each module record (exports, imports, symbols), adding
// dependency edges for imports whose resolved target maps to a known id and
// aggregating the rest as external dependencies as it goes.
func FromCollection(fsys fs.FileSystem, state *CollectionState, analyze SymbolAnalyzer) (*ModuleGraph, error) {
	g := NewModuleGraph()

	pathToID := make(map[string]ModuleID, len(state.Modules))
	for _, path := range state.Order {
		collected := state.Modules[path]
		if collected.IsExternal {
			continue
		}
		id, err := NewModuleID(fsys, path)
		if err != nil {
			return nil, &ModuleIDConversionError{Path: path, Err: err}
		}
		pathToID[path] = id
	}

	externalAggregate := make(map[string]*ExternalDependency)

	for _, path := range state.Order {
		collected := state.Modules[path]
		if collected.IsExternal {
			continue
		}
		id := pathToID[path]

		exports := convertExports(collected, id)
		sourceType := SourceTypeFromPath(path)

		var symbols *SymbolTable
		if analyze != nil {
			table, err := analyze(path, collected.Code, sourceType)
			if err != nil || table == nil {
				table = NewSymbolTable()
			}
			symbols = table
		} else {
			symbols = NewSymbolTable()
		}

		names := make([]string, len(exports))
		for i, e := range exports {
			names[i] = e.Name
		}
		symbols.MarkExports(names)

		module := &Module{
			ID:             id,
			Path:           path,
			SourceType:     sourceType,
			Exports:        exports,
			HasSideEffects: collected.HasSideEffects,
			IsEntry:        collected.IsEntry,
			OriginalSize:   len(collected.Code),
			Symbols:        symbols,
			ExportsKind:    inferExportsKind(collected.Exports),
			HasStarExports: hasStarExport(collected.Exports),
		}

		imports := make([]Import, 0, len(collected.Imports))
		for _, ci := range collected.Imports {
			imp := convertImport(ci, path)
			target := ci.Source
			if ci.ResolvedPath != nil {
				target = *ci.ResolvedPath
			}
			if targetID, ok := pathToID[target]; ok {
				resolved := targetID
				imp.ResolvedTo = &resolved
				g.AddDependency(id, targetID)
			} else if target != "" {
				dep, ok := externalAggregate[target]
				if !ok {
					dep = NewExternalDependency(target)
					externalAggregate[target] = dep
				}
				dep.PushImporter(id)
			}
			imports = append(imports, imp)
		}
		module.Imports = imports

		g.AddModule(module)
	}

	for _, dep := range externalAggregate {
		g.AddExternalDependency(dep)
	}

	return g, nil
}

func convertImport(ci CollectedImport, file string) Import {
	specifiers := make([]ImportSpecifier, 0, len(ci.Specifiers))
	for _, spec := range ci.Specifiers {
		switch spec.Kind {
		case CollectedDefault:
			specifiers = append(specifiers, DefaultSpecifier())
		case CollectedNamespace:
			specifiers = append(specifiers, NamespaceSpecifier(spec.Local))
		default:
			specifiers = append(specifiers, NamedSpecifier(spec.Imported))
		}
	}

	kind := ImportStatic
	switch ci.Kind {
	case CollectedDynamic:
		kind = ImportDynamic
	case CollectedRequire:
		kind = ImportRequire
	case CollectedTypeOnly:
		kind = ImportTypeOnly
	}

	return Import{
		Source:     ci.Source,
		Specifiers: specifiers,
		Kind:       kind,
		Span:       NewSourceSpan(file, ci.Start, ci.End),
	}
}

func convertExports(collected *CollectedModule, id ModuleID) []*Export {
	exports := make([]*Export, 0, len(collected.Exports))
	for _, ce := range collected.Exports {
		span := NewSourceSpan(collected.Path, ce.Start, ce.End)
		switch ce.Kind {
		case CollectedExportDefault:
			exports = append(exports, &Export{
				Name: "default",
				Kind: ExportDefault,
				Span: span,
			})
		case CollectedExportAll:
			source := ce.Source
			exports = append(exports, &Export{
				Name:           StarExportName,
				Kind:           ExportStarReExport,
				ReExportedFrom: &source,
				Span:           span,
			})
		case CollectedExportTypeOnly:
			exports = append(exports, &Export{
				Name:       ce.Exported,
				Kind:       ExportTypeOnly,
				IsTypeOnly: true,
				Span:       span,
			})
		default:
			kind := ExportNamed
			if ce.Exported == "default" {
				kind = ExportDefault
			}
			export := &Export{
				Name: ce.Exported,
				Kind: kind,
				Span: span,
			}
			if ce.Source != "" {
				source := ce.Source
				export.Kind = ExportReExport
				export.ReExportedFrom = &source
			}
			exports = append(exports, export)
		}
	}
	return exports
}

// inferExportsKind assumes ESM when any export exists and None otherwise.
// CommonJS modules are not detected: require calls are recorded as imports
// only, and no module is given the CJS or Unknown kind.
func inferExportsKind(exports []CollectedExport) ExportsKind {
	if len(exports) == 0 {
		return ExportsNone
	}
	return ExportsESM
}

func hasStarExport(exports []CollectedExport) bool {
	for _, e := range exports {
		if e.Kind == CollectedExportAll {
			return true
		}
	}
	return false
}
