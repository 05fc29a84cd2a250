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

import "sort"

// SymbolKind classifies a declared symbol.
type SymbolKind string

const (
	SymbolVariable  SymbolKind = "variable"
	SymbolFunction  SymbolKind = "function"
	SymbolClass     SymbolKind = "class"
	SymbolTypeAlias SymbolKind = "type-alias"
	SymbolInterface SymbolKind = "interface"
	SymbolEnum      SymbolKind = "enum"
	SymbolImport    SymbolKind = "import"
	SymbolUnknown   SymbolKind = "unknown"
)

// QualifiedReference records a member access rooted at a symbol, e.g.
// `config.server.port` stored as path ["server", "port"].
type QualifiedReference struct {
	MemberPath []string   `json:"memberPath"`
	IsType     bool       `json:"isType"`
	Span       SourceSpan `json:"span"`
}

// SymbolMetadata carries kind-specific detail for a symbol. At most one field
// is set.
type SymbolMetadata struct {
	ClassMember *ClassMemberMetadata `json:"classMember,omitempty"`
	EnumMember  *EnumMemberMetadata  `json:"enumMember,omitempty"`
	CodeQuality *CodeQualityMetadata `json:"codeQuality,omitempty"`
}

// ClassMemberMetadata describes a symbol that is a class member.
type ClassMemberMetadata struct {
	ClassName string `json:"className"`
	IsStatic  bool   `json:"isStatic"`
	IsPrivate bool   `json:"isPrivate"`
}

// EnumMemberMetadata describes a symbol that is an enum member.
type EnumMemberMetadata struct {
	EnumName string `json:"enumName"`
}

// CodeQualityMetadata carries analysis hints attached to a symbol.
type CodeQualityMetadata struct {
	Notes []string `json:"notes,omitempty"`
}

// Symbol is one declared name in a module.
type Symbol struct {
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	Span       SourceSpan `json:"span"`
	ReadCount  int        `json:"readCount"`
	WriteCount int        `json:"writeCount"`
	IsExported bool       `json:"isExported"`

	QualifiedReferences []QualifiedReference `json:"qualifiedReferences,omitempty"`

	Metadata SymbolMetadata `json:"metadata,omitempty"`
}

// IsUnused reports whether the symbol is never read and not exported.
func (s *Symbol) IsUnused() bool {
	return s.ReadCount == 0 && !s.IsExported
}

// SymbolTable holds the symbols of a single module plus spans of statically
// unreachable code.
type SymbolTable struct {
	Symbols map[string]*Symbol `json:"symbols"`

	// UnreachableCode lists spans the semantic pass proved unreachable
	// (statements after a terminating return, throw, break or continue).
	UnreachableCode []SourceSpan `json:"unreachableCode,omitempty"`
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Symbols: make(map[string]*Symbol)}
}

// Add inserts a symbol, replacing any previous symbol of the same name.
func (t *SymbolTable) Add(s *Symbol) {
	if t.Symbols == nil {
		t.Symbols = make(map[string]*Symbol)
	}
	t.Symbols[s.Name] = s
}

// Get looks up a symbol by name.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.Symbols[name]
	return s, ok
}

// MarkExports flags every symbol whose name appears in names as exported,
// linking export status into symbol-level dead code analysis.
func (t *SymbolTable) MarkExports(names []string) {
	for _, name := range names {
		if s, ok := t.Symbols[name]; ok {
			s.IsExported = true
		}
	}
}

// Names returns the symbol names in sorted order.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.Symbols))
	for name := range t.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnusedSymbols returns symbols that are never read and not exported, sorted
// by name.
func (t *SymbolTable) UnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, name := range t.Names() {
		if s := t.Symbols[name]; s.IsUnused() {
			unused = append(unused, s)
		}
	}
	return unused
}

// SymbolStatistics aggregates symbol-level counts across a graph.
type SymbolStatistics struct {
	TotalSymbols     int `json:"totalSymbols"`
	ExportedSymbols  int `json:"exportedSymbols"`
	UnusedSymbols    int `json:"unusedSymbols"`
	UnreachableSpans int `json:"unreachableSpans"`
}

// Accumulate folds one module's table into the statistics.
func (st *SymbolStatistics) Accumulate(t *SymbolTable) {
	if t == nil {
		return
	}
	st.TotalSymbols += len(t.Symbols)
	st.UnreachableSpans += len(t.UnreachableCode)
	for _, s := range t.Symbols {
		if s.IsExported {
			st.ExportedSymbols++
		}
		if s.IsUnused() {
			st.UnusedSymbols++
		}
	}
}
