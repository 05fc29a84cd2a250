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

package parse

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/fob/graph"
)

// dialectFor maps a source type onto the grammar that parses it.
func dialectFor(sourceType graph.SourceType) string {
	switch sourceType {
	case graph.SourceJSX, graph.SourceTSX:
		return "tsx"
	default:
		return "typescript"
	}
}

// Structure is the parsed shape of one module.
type Structure struct {
	Imports        []graph.CollectedImport
	Exports        []graph.CollectedExport
	HasSideEffects bool
}

// ParseStructure extracts imports, exports and the side-effect flag from a
// module source.
//
// Parse failures return an error; callers treat an unparseable module as
// having no structure and arbitrary side effects.
func ParseStructure(content []byte, sourceType graph.SourceType) (*Structure, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}

	dialect := dialectFor(sourceType)
	parser := getParser(dialect)
	defer putParser(dialect, parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse content")
	}
	defer tree.Close()

	query, err := qm.Query(dialect, "structure")
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	structure := &Structure{}
	captureNames := query.CaptureNames()

	matches := cursor.Matches(query, tree.RootNode(), content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		// One match is one pattern; gather its captures by name so related
		// captures (a call and its argument) are read together.
		captured := make(map[string]*ts.Node, len(match.Captures))
		for i := range match.Captures {
			captured[captureNames[match.Captures[i].Index]] = &match.Captures[i].Node
		}

		switch {
		case captured["import.stmt"] != nil:
			structure.Imports = append(structure.Imports, collectImport(captured["import.stmt"], content))
		case captured["export.stmt"] != nil:
			imports, exports := collectExport(captured["export.stmt"], content)
			structure.Imports = append(structure.Imports, imports...)
			structure.Exports = append(structure.Exports, exports...)
		case captured["dynamicImport.spec"] != nil:
			node := captured["dynamicImport.spec"]
			structure.Imports = append(structure.Imports, graph.CollectedImport{
				Source: node.Utf8Text(content),
				Kind:   graph.CollectedDynamic,
				Start:  uint32(node.StartByte()),
				End:    uint32(node.EndByte()),
			})
		case captured["require.spec"] != nil:
			// The query matches any single-string call; only require() is a
			// module reference.
			if fn := captured["require.fn"]; fn == nil || fn.Utf8Text(content) != "require" {
				break
			}
			node := captured["require.spec"]
			structure.Imports = append(structure.Imports, graph.CollectedImport{
				Source: node.Utf8Text(content),
				Kind:   graph.CollectedRequire,
				Start:  uint32(node.StartByte()),
				End:    uint32(node.EndByte()),
			})
		}
	}

	structure.HasSideEffects = detectSideEffects(tree.RootNode())
	return structure, nil
}

// collectImport extracts one import_statement.
func collectImport(node *ts.Node, content []byte) graph.CollectedImport {
	imp := graph.CollectedImport{
		Kind:  graph.CollectedStatic,
		Start: uint32(node.StartByte()),
		End:   uint32(node.EndByte()),
	}

	if source := node.ChildByFieldName("source"); source != nil {
		imp.Source = stringText(source, content)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			imp.Kind = graph.CollectedTypeOnly
		case "import_clause":
			imp.Specifiers = append(imp.Specifiers, collectImportClause(child, content)...)
		}
	}

	return imp
}

func collectImportClause(clause *ts.Node, content []byte) []graph.CollectedSpecifier {
	var specifiers []graph.CollectedSpecifier
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			specifiers = append(specifiers, graph.CollectedSpecifier{
				Kind:  graph.CollectedDefault,
				Local: child.Utf8Text(content),
			})
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				imported := ""
				local := ""
				if name := spec.ChildByFieldName("name"); name != nil {
					imported = name.Utf8Text(content)
					local = imported
				}
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias.Utf8Text(content)
				}
				specifiers = append(specifiers, graph.CollectedSpecifier{
					Kind:     graph.CollectedNamed,
					Imported: imported,
					Local:    local,
				})
			}
		case "namespace_import":
			local := ""
			for j := uint(0); j < child.ChildCount(); j++ {
				if inner := child.Child(j); inner != nil && inner.Kind() == "identifier" {
					local = inner.Utf8Text(content)
				}
			}
			specifiers = append(specifiers, graph.CollectedSpecifier{
				Kind:  graph.CollectedNamespace,
				Local: local,
			})
		}
	}
	return specifiers
}

// collectExport extracts one export_statement. Re-exports also yield a
// synthetic import so the walker follows their source module.
func collectExport(node *ts.Node, content []byte) ([]graph.CollectedImport, []graph.CollectedExport) {
	start := uint32(node.StartByte())
	end := uint32(node.EndByte())

	source := ""
	if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
		source = stringText(sourceNode, content)
	}

	typeOnly := false
	isDefault := false
	isStar := false
	var exports []graph.CollectedExport

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			typeOnly = true
		case "default":
			isDefault = true
		case "*", "namespace_export":
			isStar = true
		case "export_clause":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "export_specifier" {
					continue
				}
				exported := ""
				local := ""
				if name := spec.ChildByFieldName("name"); name != nil {
					local = name.Utf8Text(content)
					exported = local
				}
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					exported = alias.Utf8Text(content)
				}
				kind := graph.CollectedExportNamed
				if typeOnly {
					kind = graph.CollectedExportTypeOnly
				}
				exports = append(exports, graph.CollectedExport{
					Kind:     kind,
					Exported: exported,
					Local:    local,
					Source:   source,
					Start:    start,
					End:      end,
				})
			}
		default:
			if name, kind := declaredName(child, content); name != "" {
				exportKind := graph.CollectedExportNamed
				if typeOnly || kind == "type" {
					exportKind = graph.CollectedExportTypeOnly
				}
				exports = append(exports, graph.CollectedExport{
					Kind:     exportKind,
					Exported: name,
					Local:    name,
					Start:    start,
					End:      end,
				})
			} else if names := lexicalNames(child, content); len(names) > 0 {
				for _, n := range names {
					exports = append(exports, graph.CollectedExport{
						Kind:     graph.CollectedExportNamed,
						Exported: n,
						Local:    n,
						Start:    start,
						End:      end,
					})
				}
			}
		}
	}

	if isStar {
		exports = append(exports, graph.CollectedExport{
			Kind:   graph.CollectedExportAll,
			Source: source,
			Start:  start,
			End:    end,
		})
	} else if isDefault {
		// `export default function foo() {}` still exports "default"; the
		// declared name only binds locally.
		local := ""
		if len(exports) > 0 {
			local = exports[0].Local
		}
		exports = []graph.CollectedExport{{
			Kind:  graph.CollectedExportDefault,
			Local: local,
			Start: start,
			End:   end,
		}}
	}

	var imports []graph.CollectedImport
	if source != "" {
		kind := graph.CollectedStatic
		if typeOnly {
			kind = graph.CollectedTypeOnly
		}
		var specifiers []graph.CollectedSpecifier
		for _, e := range exports {
			if e.Kind == graph.CollectedExportNamed {
				specifiers = append(specifiers, graph.CollectedSpecifier{
					Kind:     graph.CollectedNamed,
					Imported: e.Local,
					Local:    e.Local,
				})
			}
		}
		imports = append(imports, graph.CollectedImport{
			Source:     source,
			Specifiers: specifiers,
			Kind:       kind,
			Start:      start,
			End:        end,
		})
	}

	return imports, exports
}

// declaredName returns the name of a function/class/type/interface/enum
// declaration, with a coarse kind tag for type-only detection.
func declaredName(node *ts.Node, content []byte) (string, string) {
	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(content), "value"
		}
	case "class_declaration", "abstract_class_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(content), "value"
		}
	case "enum_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(content), "value"
		}
	case "type_alias_declaration", "interface_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(content), "type"
		}
	}
	return "", ""
}

// lexicalNames returns the declared names of a const/let/var declaration.
func lexicalNames(node *ts.Node, content []byte) []string {
	if kind := node.Kind(); kind != "lexical_declaration" && kind != "variable_declaration" {
		return nil
	}
	var names []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			names = append(names, name.Utf8Text(content))
		}
	}
	return names
}

// stringText returns the contents of a string literal node without quotes.
func stringText(node *ts.Node, content []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == "string_fragment" {
			return child.Utf8Text(content)
		}
	}
	text := node.Utf8Text(content)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// declarationKinds are top-level statements that evaluate without effects.
var declarationKinds = map[string]bool{
	"import_statement":               true,
	"export_statement":               true,
	"function_declaration":           true,
	"generator_function_declaration": true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"lexical_declaration":            true,
	"variable_declaration":           true,
	"type_alias_declaration":         true,
	"interface_declaration":          true,
	"enum_declaration":               true,
	"ambient_declaration":            true,
	"comment":                        true,
	"empty_statement":                true,
	"hash_bang_line":                 true,
}

// detectSideEffects reports whether any top-level statement does more than
// declare. Expression statements, loops, conditionals and bare calls at the
// top level all count as side effects.
func detectSideEffects(root *ts.Node) bool {
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		if !declarationKinds[child.Kind()] {
			return true
		}
	}
	return false
}
