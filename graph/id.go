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

// Package graph defines the module graph data model: module identity, imports,
// exports, symbols, the graph itself, and the analysis queries over it.
package graph

import (
	"errors"
	"path/filepath"
	"strings"

	"bennypowers.dev/fob/fs"
)

// VirtualPrefix marks module identifiers that have no backing file on disk.
// Virtual identifiers are never canonicalized.
const VirtualPrefix = "virtual:"

// ErrEmptyModuleID is returned when a module id is constructed from an empty
// string.
var ErrEmptyModuleID = errors.New("module id must not be empty")

// ModuleID is the canonical identity of a module.
//
// For filesystem modules the id is the normalized path, canonicalized
// (symlinks resolved) when the target exists. Virtual modules keep their
// "virtual:" specifier verbatim. A ModuleID is immutable once constructed;
// equality and hashing use the canonical string form.
type ModuleID string

// NewModuleID constructs a module id from a path or virtual specifier.
//
// Filesystem paths are made absolute and canonicalized through the given
// filesystem when the target exists; paths that do not exist yet are cleaned
// without symlink resolution.
func NewModuleID(fsys fs.FileSystem, path string) (ModuleID, error) {
	if path == "" {
		return "", ErrEmptyModuleID
	}
	if strings.HasPrefix(path, VirtualPrefix) {
		return ModuleID(path), nil
	}
	if canonical, err := fsys.Canonicalize(path); err == nil {
		return ModuleID(canonical), nil
	}
	return ModuleID(filepath.Clean(path)), nil
}

// IsVirtual reports whether the id names a virtual module.
func (id ModuleID) IsVirtual() bool {
	return strings.HasPrefix(string(id), VirtualPrefix)
}

// Path returns the filesystem path for non-virtual ids, or the raw specifier
// for virtual ids.
func (id ModuleID) Path() string {
	return string(id)
}

// String returns the canonical string form.
func (id ModuleID) String() string {
	return string(id)
}

// MarshalText serializes the id as its canonical string form.
func (id ModuleID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

// UnmarshalText restores an id from its canonical string form.
func (id *ModuleID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return ErrEmptyModuleID
	}
	*id = ModuleID(text)
	return nil
}
