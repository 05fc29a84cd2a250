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

// CollectedSpecifierKind classifies a binding in a collected import.
type CollectedSpecifierKind string

const (
	CollectedNamed     CollectedSpecifierKind = "named"
	CollectedDefault   CollectedSpecifierKind = "default"
	CollectedNamespace CollectedSpecifierKind = "namespace"
)

// CollectedSpecifier is one binding of a collected import, before conversion.
// Local aliases of named and default bindings are dropped during conversion;
// imported names are what dependency analysis needs. Namespace bindings keep
// their local name.
type CollectedSpecifier struct {
	Kind     CollectedSpecifierKind
	Imported string
	Local    string
}

// CollectedImportKind classifies a collected import declaration.
type CollectedImportKind string

const (
	CollectedStatic   CollectedImportKind = "static"
	CollectedDynamic  CollectedImportKind = "dynamic"
	CollectedRequire  CollectedImportKind = "require"
	CollectedTypeOnly CollectedImportKind = "type-only"
)

// CollectedImport is an import found during the walk, before module ids
// exist.
type CollectedImport struct {
	Source     string
	Specifiers []CollectedSpecifier
	Kind       CollectedImportKind

	// ResolvedPath is set when the resolver mapped the specifier to a local
	// file; nil for external and unresolved specifiers.
	ResolvedPath *string

	Start uint32
	End   uint32
}

// CollectedExportKind classifies a collected export declaration.
type CollectedExportKind string

const (
	CollectedExportNamed   CollectedExportKind = "named"
	CollectedExportDefault CollectedExportKind = "default"
	// CollectedExportAll is `export * from`.
	CollectedExportAll      CollectedExportKind = "all"
	CollectedExportTypeOnly CollectedExportKind = "type-only"
)

// CollectedExport is an export found during the walk.
type CollectedExport struct {
	Kind     CollectedExportKind
	Exported string
	Local    string
	// Source is the re-export source specifier, set for all and re-exports.
	Source string

	Start uint32
	End   uint32
}

// CollectedModule accumulates everything the walker learns about one module.
type CollectedModule struct {
	Path    string
	Code    string
	Imports []CollectedImport
	Exports []CollectedExport

	IsEntry        bool
	IsExternal     bool
	HasSideEffects bool
}

// CollectionState is the mutable accumulator populated during a walk and
// discarded after conversion into a ModuleGraph.
//
// All mutation happens under the walker's exclusive access; the state itself
// is not synchronized.
type CollectionState struct {
	// Modules maps path (or virtual specifier) to the collected record.
	Modules map[string]*CollectedModule

	// Order records insertion order so conversion is deterministic.
	Order []string

	// EntrySpecifiers are the entry inputs as supplied by the caller.
	EntrySpecifiers []string

	// EntryPaths are the resolved entry module paths, in input order.
	EntryPaths []string
}

// NewCollectionState creates an empty accumulator.
func NewCollectionState() *CollectionState {
	return &CollectionState{Modules: make(map[string]*CollectedModule)}
}

// Add records a collected module under its path, tracking insertion order.
// Re-adding a path replaces the record without duplicating the order entry.
func (s *CollectionState) Add(m *CollectedModule) {
	if _, exists := s.Modules[m.Path]; !exists {
		s.Order = append(s.Order, m.Path)
	}
	s.Modules[m.Path] = m
}

// Len returns the number of collected modules.
func (s *CollectionState) Len() int {
	return len(s.Modules)
}
