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
	"errors"
	"fmt"
)

// ErrInvalidUTF8 marks source files that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// errVirtualNotFound marks a virtual module id with no configured source.
var errVirtualNotFound = errors.New("virtual module not found in configuration")

// MaxDepthError reports a walk that exceeded the configured depth limit.
type MaxDepthError struct {
	Path  string
	Depth int
	Max   int
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("max depth exceeded at %s: depth %d exceeds limit %d", e.Path, e.Depth, e.Max)
}

// MaxModulesError reports a walk that exceeded the configured module limit.
type MaxModulesError struct {
	Count int
	Max   int
}

func (e *MaxModulesError) Error() string {
	return fmt.Sprintf("max modules exceeded: %d reaches limit %d", e.Count, e.Max)
}

// PathTraversalError reports a module path that escapes the working
// directory.
type PathTraversalError struct {
	Path string
	Cwd  string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path traversal detected: path %q escapes from cwd %q", e.Path, e.Cwd)
}

// FileTooLargeError reports a source file over the configured size limit.
type FileTooLargeError struct {
	Path string
	Size int
	Max  int
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %s is %d bytes, limit is %d", e.Path, e.Size, e.Max)
}

// ReadFileError wraps a failure to read a module source, including UTF-8
// validation failures.
type ReadFileError struct {
	Path string
	Err  error
}

func (e *ReadFileError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadFileError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a framework-file extraction failure.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting scripts from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
