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

package walker

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/fob/fs"
)

// normalizeAndValidate resolves path to an absolute, cleaned form and
// requires it to stay within cwd.
//
// Existing paths are canonicalized (symlinks resolved) before the check. For
// paths that do not exist yet, the deepest existing ancestor is canonicalized
// and the remainder composed back on; if the original path contained
// parent-directory components the composed result must still land inside
// cwd.
func normalizeAndValidate(fsys fs.FileSystem, path, cwd string) (string, error) {
	canonicalCwd, err := fsys.Canonicalize(cwd)
	if err != nil {
		// A cwd that cannot be canonicalized still participates cleaned.
		canonicalCwd = filepath.Clean(cwd)
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, abs)
	}
	cleaned := filepath.Clean(abs)

	if canonical, err := fsys.Canonicalize(cleaned); err == nil {
		if !within(canonical, canonicalCwd) {
			return "", &PathTraversalError{Path: path, Cwd: cwd}
		}
		return canonical, nil
	}

	// Path does not exist: canonicalize the deepest existing ancestor and
	// compose the remainder back on.
	ancestor := cleaned
	var remainder []string
	for {
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		remainder = append([]string{filepath.Base(ancestor)}, remainder...)
		ancestor = parent
		if canonical, err := fsys.Canonicalize(ancestor); err == nil {
			// Cleaning already folded any parent-directory components, so a
			// specifier that climbed out of its directory only passes when
			// the composed result still lands inside cwd.
			composed := filepath.Join(append([]string{canonical}, remainder...)...)
			if !within(composed, canonicalCwd) {
				return "", &PathTraversalError{Path: path, Cwd: cwd}
			}
			return composed, nil
		}
	}

	// No existing ancestor at all; fall back to the cleaned form.
	if !within(cleaned, canonicalCwd) {
		return "", &PathTraversalError{Path: path, Cwd: cwd}
	}
	return cleaned, nil
}

func within(path, root string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
