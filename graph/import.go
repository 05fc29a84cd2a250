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

// ImportKind classifies how a module dependency is declared.
type ImportKind string

const (
	ImportStatic   ImportKind = "static"
	ImportDynamic  ImportKind = "dynamic"
	ImportRequire  ImportKind = "require"
	ImportTypeOnly ImportKind = "type-only"
	ImportReExport ImportKind = "re-export"
)

// SpecifierKind classifies a single imported binding.
type SpecifierKind string

const (
	SpecifierNamed     SpecifierKind = "named"
	SpecifierDefault   SpecifierKind = "default"
	SpecifierNamespace SpecifierKind = "namespace"
)

// ImportSpecifier is one binding introduced by an import declaration.
//
// Name holds the imported name for named specifiers and the local binding for
// namespace specifiers; it is empty for default imports.
type ImportSpecifier struct {
	Kind SpecifierKind `json:"kind"`
	Name string        `json:"name,omitempty"`
}

// NamedSpecifier constructs a named import binding.
func NamedSpecifier(name string) ImportSpecifier {
	return ImportSpecifier{Kind: SpecifierNamed, Name: name}
}

// DefaultSpecifier constructs a default import binding.
func DefaultSpecifier() ImportSpecifier {
	return ImportSpecifier{Kind: SpecifierDefault}
}

// NamespaceSpecifier constructs a namespace import binding with its local
// name.
func NamespaceSpecifier(local string) ImportSpecifier {
	return ImportSpecifier{Kind: SpecifierNamespace, Name: local}
}

// Import is one import declaration in a module.
type Import struct {
	// Source is the specifier text as written.
	Source string `json:"source"`

	// Specifiers are the bindings the declaration introduces. Empty for
	// side-effect-only imports.
	Specifiers []ImportSpecifier `json:"specifiers,omitempty"`

	Kind ImportKind `json:"kind"`

	// ResolvedTo is the target module when resolution succeeded, nil for
	// external or unresolved specifiers.
	ResolvedTo *ModuleID `json:"resolvedTo,omitempty"`

	Span SourceSpan `json:"span"`
}

// IsSideEffectOnly reports whether the import binds nothing.
func (i Import) IsSideEffectOnly() bool {
	return len(i.Specifiers) == 0 && i.Kind != ImportTypeOnly
}

// ContributesToRuntime reports whether the import participates in runtime
// reachability. Type-only imports never do.
func (i Import) ContributesToRuntime() bool {
	return i.Kind != ImportTypeOnly
}
