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
	"path/filepath"
	"strings"
)

// SourceType identifies the language dialect of a module.
type SourceType string

const (
	SourceJS  SourceType = "js"
	SourceTS  SourceType = "ts"
	SourceJSX SourceType = "jsx"
	SourceTSX SourceType = "tsx"
)

// SourceTypeFromPath infers the dialect from a file extension. Unknown
// extensions (including extracted framework files) default to TypeScript,
// which is a superset for the structures the parser extracts.
func SourceTypeFromPath(path string) SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return SourceJS
	case ".jsx":
		return SourceJSX
	case ".tsx":
		return SourceTSX
	default:
		return SourceTS
	}
}

// ExportsKind identifies the module system a module's exports use.
type ExportsKind string

const (
	ExportsNone    ExportsKind = "none"
	ExportsESM     ExportsKind = "esm"
	ExportsCJS     ExportsKind = "cjs"
	ExportsUnknown ExportsKind = "unknown"
)

// Module is a single source file (or virtual source) after parsing.
//
// Imports and exports are stable after graph construction; framework-rule
// passes that need to mutate a module clone it, mutate the clone, and
// reinsert it through AddModule.
type Module struct {
	ID   ModuleID `json:"id"`
	Path string   `json:"path"`

	SourceType SourceType `json:"sourceType"`

	Imports []Import  `json:"imports"`
	Exports []*Export `json:"exports"`

	HasSideEffects bool `json:"hasSideEffects"`
	IsEntry        bool `json:"isEntry"`
	IsExternal     bool `json:"isExternal"`

	OriginalSize int  `json:"originalSize"`
	BundledSize  *int `json:"bundledSize,omitempty"`

	Symbols *SymbolTable `json:"symbols,omitempty"`

	ExportsKind    ExportsKind `json:"exportsKind"`
	HasStarExports bool        `json:"hasStarExports"`

	// ExecutionOrder is the engine-assigned evaluation order, nil until a
	// bundle has been produced.
	ExecutionOrder *int `json:"executionOrder,omitempty"`
}

// Clone returns a deep-enough copy for the clone-mutate-reinsert pattern:
// imports and exports are copied, the symbol table is shared.
func (m *Module) Clone() *Module {
	clone := *m
	clone.Imports = make([]Import, len(m.Imports))
	copy(clone.Imports, m.Imports)
	clone.Exports = make([]*Export, len(m.Exports))
	for i, e := range m.Exports {
		ec := *e
		clone.Exports[i] = &ec
	}
	return &clone
}

// Export looks up an export by name.
func (m *Module) Export(name string) (*Export, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// NamedExports returns the exports that carry a concrete name (everything but
// star re-exports).
func (m *Module) NamedExports() []*Export {
	named := make([]*Export, 0, len(m.Exports))
	for _, e := range m.Exports {
		if !e.IsStarReExport() {
			named = append(named, e)
		}
	}
	return named
}

// StarReExports returns the module's `export * from` declarations.
func (m *Module) StarReExports() []*Export {
	var stars []*Export
	for _, e := range m.Exports {
		if e.IsStarReExport() {
			stars = append(stars, e)
		}
	}
	return stars
}
