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

package builder

import (
	"fmt"
	"path/filepath"

	"bennypowers.dev/fob/cache"
	"bennypowers.dev/fob/fs"
)

// WriteError reports a failed output write after rollback completed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// writeOutputs writes every artifact under outDir. Writes are atomic at the
// level of the whole build: on any failure, files written so far are removed
// before the error is returned.
func writeOutputs(fsys fs.FileSystem, outDir string, outputs []cache.SerializedOutput) error {
	if err := fsys.MkdirAll(outDir, 0o755); err != nil {
		return &WriteError{Path: outDir, Err: err}
	}

	var written []string
	rollback := func() {
		for i := len(written) - 1; i >= 0; i-- {
			_ = fsys.Remove(written[i])
		}
	}

	write := func(name string, data []byte) error {
		path := filepath.Join(outDir, filepath.Base(name))
		if err := fsys.WriteFile(path, data, 0o644); err != nil {
			rollback()
			return &WriteError{Path: path, Err: err}
		}
		written = append(written, path)
		return nil
	}

	for _, output := range outputs {
		data := output.Contents
		if output.Kind == cache.OutputChunk {
			data = []byte(output.Code)
		}
		if err := write(output.Filename, data); err != nil {
			return err
		}
		if output.MapJSON != "" {
			if err := write(output.Filename+".map", []byte(output.MapJSON)); err != nil {
				return err
			}
		}
	}

	return nil
}
