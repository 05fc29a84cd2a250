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
	"strings"
	"unicode/utf8"

	"bennypowers.dev/fob/fs"
	"bennypowers.dev/fob/graph"
	"bennypowers.dev/fob/parse"
)

// moduleParser reads and parses module files, enforcing the size limit and
// extracting embedded scripts from framework files.
type moduleParser struct {
	fsys          fs.FileSystem
	fileSizeLimit int
	maxScriptTags int
	virtualFiles  map[string]string
}

// parsedModule is the result of processing one module file.
type parsedModule struct {
	Code           string
	Imports        []graph.CollectedImport
	Exports        []graph.CollectedExport
	HasSideEffects bool

	// ParseFailed records a recovered parse failure: structure is empty and
	// side effects are assumed.
	ParseFailed bool
}

// processModule reads a module, extracts framework scripts when applicable,
// and parses its structure. Parse failures are recovered: the module comes
// back with no structure and the side-effect flag set.
func (p *moduleParser) processModule(path string) (*parsedModule, error) {
	code, err := p.readFile(path)
	if err != nil {
		return nil, err
	}

	toParse := []byte(code)
	var offsets *parse.OffsetMap
	if parse.IsFrameworkFile(path) {
		blocks, err := parse.ExtractScripts(path, toParse, p.maxScriptTags)
		if err != nil {
			return nil, &ExtractionError{Path: path, Err: err}
		}
		if len(blocks) > 0 {
			toParse, offsets = parse.Concatenate(blocks)
		}
	}

	structure, err := parse.ParseStructure(toParse, graph.SourceTypeFromPath(path))
	if err != nil {
		// An unparseable module may run arbitrary code; assume side effects
		// and keep going.
		return &parsedModule{Code: code, HasSideEffects: true, ParseFailed: true}, nil
	}

	if offsets != nil {
		translateSpans(structure, offsets)
	}

	return &parsedModule{
		Code:           code,
		Imports:        structure.Imports,
		Exports:        structure.Exports,
		HasSideEffects: structure.HasSideEffects,
	}, nil
}

// readFile loads a module source with size validation before and after
// reading, plus UTF-8 validation. Virtual modules come from configuration
// instead of the filesystem.
func (p *moduleParser) readFile(path string) (string, error) {
	if source, ok := p.virtualFiles[path]; ok {
		if len(source) > p.fileSizeLimit {
			return "", &FileTooLargeError{Path: path, Size: len(source), Max: p.fileSizeLimit}
		}
		return source, nil
	}
	if strings.HasPrefix(path, graph.VirtualPrefix) {
		return "", &ReadFileError{Path: path, Err: errVirtualNotFound}
	}

	if info, err := p.fsys.Stat(path); err == nil {
		if info.Size() > int64(p.fileSizeLimit) {
			return "", &FileTooLargeError{Path: path, Size: int(info.Size()), Max: p.fileSizeLimit}
		}
	}

	bytes, err := p.fsys.ReadFile(path)
	if err != nil {
		return "", &ReadFileError{Path: path, Err: err}
	}

	// Size check again after reading, in case metadata was unavailable.
	if len(bytes) > p.fileSizeLimit {
		return "", &FileTooLargeError{Path: path, Size: len(bytes), Max: p.fileSizeLimit}
	}

	if !utf8.Valid(bytes) {
		return "", &ReadFileError{Path: path, Err: ErrInvalidUTF8}
	}

	return string(bytes), nil
}

// translateSpans maps extracted-source offsets back to the original file.
func translateSpans(structure *parse.Structure, offsets *parse.OffsetMap) {
	for i := range structure.Imports {
		structure.Imports[i].Start = offsets.Translate(structure.Imports[i].Start)
		structure.Imports[i].End = offsets.Translate(structure.Imports[i].End)
	}
	for i := range structure.Exports {
		structure.Exports[i].Start = offsets.Translate(structure.Exports[i].Start)
		structure.Exports[i].End = offsets.Translate(structure.Exports[i].End)
	}
}
