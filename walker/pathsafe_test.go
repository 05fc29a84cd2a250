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
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/fob/fs"
)

func TestNormalizeAndValidateValidPath(t *testing.T) {
	cwd := t.TempDir()
	valid := filepath.Join(cwd, "src", "index.ts")
	if err := os.MkdirAll(filepath.Dir(valid), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(valid, nil, 0644); err != nil {
		t.Fatal(err)
	}

	osfs := fs.NewOSFileSystem()
	if _, err := normalizeAndValidate(osfs, valid, cwd); err != nil {
		t.Errorf("normalizeAndValidate() error = %v, want nil", err)
	}
}

func TestNormalizeAndValidateTraversal(t *testing.T) {
	cwd := t.TempDir()
	traversal := filepath.Join(cwd, "..", "etc", "passwd")

	osfs := fs.NewOSFileSystem()
	_, err := normalizeAndValidate(osfs, traversal, cwd)
	if err == nil {
		t.Fatal("normalizeAndValidate() = nil, want PathTraversalError")
	}
	if _, ok := err.(*PathTraversalError); !ok {
		t.Errorf("error type = %T, want *PathTraversalError", err)
	}
}

func TestNormalizeAndValidateRelativePath(t *testing.T) {
	cwd := t.TempDir()

	osfs := fs.NewOSFileSystem()
	got, err := normalizeAndValidate(osfs, "src/index.ts", cwd)
	if err != nil {
		t.Fatal(err)
	}
	canonical, err := osfs.Canonicalize(cwd)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(canonical, "src", "index.ts")
	if got != want {
		t.Errorf("normalizeAndValidate() = %q, want %q", got, want)
	}
}

func TestNormalizeAndValidateDotComponents(t *testing.T) {
	cwd := t.TempDir()

	osfs := fs.NewOSFileSystem()
	got, err := normalizeAndValidate(osfs, "./src/../src/./index.ts", cwd)
	if err != nil {
		t.Fatal(err)
	}
	canonical, err := osfs.Canonicalize(cwd)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(canonical, "src", "index.ts")
	if got != want {
		t.Errorf("normalizeAndValidate() = %q, want %q", got, want)
	}
}

func TestNormalizeAndValidateSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	cwd := filepath.Join(root, "proj")
	outside := filepath.Join(root, "outside")
	if err := os.MkdirAll(cwd, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(outside, 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(outside, "secret.ts")
	if err := os.WriteFile(target, nil, 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(cwd, "innocent.ts")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	osfs := fs.NewOSFileSystem()
	_, err := normalizeAndValidate(osfs, link, cwd)
	if err == nil {
		t.Fatal("symlink escaping cwd must be rejected")
	}
	if _, ok := err.(*PathTraversalError); !ok {
		t.Errorf("error type = %T, want *PathTraversalError", err)
	}
}
