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

// Package resolver decides what an import specifier means relative to the
// file that contains it.
package resolver

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
)

// Extensions is the completion order tried for extensionless specifiers.
// The order is part of the resolver contract and must stay stable.
var Extensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// ResultKind classifies a resolution outcome.
type ResultKind int

const (
	// KindLocal is a specifier resolved to a file the walker will parse.
	KindLocal ResultKind = iota
	// KindExternal is a package name or configured external.
	KindExternal
	// KindUnresolved is a relative specifier with no matching file. Never an
	// error: the walker aggregates these.
	KindUnresolved
)

// Result is the outcome of resolving one specifier.
type Result struct {
	Kind ResultKind
	// Path is the resolved file path for local results.
	Path string
	// Specifier is the original specifier for external and unresolved
	// results.
	Specifier string
}

// Local constructs a local result.
func Local(path string) Result {
	return Result{Kind: KindLocal, Path: path}
}

// External constructs an external result.
func External(specifier string) Result {
	return Result{Kind: KindExternal, Specifier: specifier}
}

// Unresolved constructs an unresolved result.
func Unresolved(specifier string) Result {
	return Result{Kind: KindUnresolved, Specifier: specifier}
}

// Resolver maps specifiers to local files, externals, or unresolved records
// under the configured aliases and external list.
type Resolver struct {
	fsys     fs.FileSystem
	external []string
	aliases  []config.PathAlias
	cwd      string
}

// New creates a resolver over the given filesystem and configuration.
func New(fsys fs.FileSystem, cfg *config.BuildConfig) *Resolver {
	return &Resolver{
		fsys:     fsys,
		external: cfg.External,
		aliases:  cfg.PathAliases,
		cwd:      cfg.Cwd,
	}
}

// Resolve maps a specifier imported by the file at from.
//
// Externals win over everything; aliases are consulted in declared order;
// relative and absolute specifiers get extension and index completion; bare
// specifiers fall out as external packages.
func (r *Resolver) Resolve(specifier, from string) Result {
	if r.isExternal(specifier) {
		return External(specifier)
	}

	for _, alias := range r.aliases {
		if !strings.HasPrefix(specifier, alias.Prefix) {
			continue
		}
		remainder := strings.TrimPrefix(specifier, alias.Prefix)
		base := alias.Target
		if !filepath.IsAbs(base) {
			base = filepath.Join(r.cwd, base)
		}
		candidate := filepath.Join(base, remainder)
		if path, ok := r.complete(candidate); ok {
			return Local(path)
		}
		// First matching alias wins; a miss under it falls through to the
		// remaining resolution steps, not to later aliases.
		break
	}

	if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "/") {
		var candidate string
		if strings.HasPrefix(specifier, "/") {
			candidate = filepath.Join(r.cwd, specifier)
		} else {
			candidate = filepath.Join(filepath.Dir(from), specifier)
		}
		if path, ok := r.complete(candidate); ok {
			return Local(path)
		}
		return Unresolved(specifier)
	}

	// Bare specifier: an npm package we will not parse.
	return External(specifier)
}

// isExternal checks the configured external list for an exact or
// package-prefix match.
func (r *Resolver) isExternal(specifier string) bool {
	for _, ext := range r.external {
		if specifier == ext || strings.HasPrefix(specifier, ext+"/") {
			return true
		}
	}
	return false
}

// complete tries the candidate as-is, with each extension appended, then as
// a directory with index files. First existing path wins.
func (r *Resolver) complete(candidate string) (string, bool) {
	if r.isFile(candidate) {
		return candidate, true
	}
	for _, ext := range Extensions {
		withExt := candidate + ext
		if r.isFile(withExt) {
			return withExt, true
		}
	}
	for _, ext := range Extensions {
		index := filepath.Join(candidate, "index"+ext)
		if r.isFile(index) {
			return index, true
		}
	}
	return "", false
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fsys.Stat(path)
	return err == nil && !info.IsDir()
}
