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

package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ScriptBlock is one embedded script extracted from a framework
// single-file-component, with its byte offset in the outer file.
type ScriptBlock struct {
	Source []byte
	Offset uint32
}

// TooManyScriptsError reports a framework file exceeding the script cap.
type TooManyScriptsError struct {
	Path  string
	Count int
	Max   int
}

func (e *TooManyScriptsError) Error() string {
	return fmt.Sprintf("too many script blocks in %s: %d exceeds limit %d", e.Path, e.Count, e.Max)
}

// IsFrameworkFile reports whether the path names a single-file-component
// format with embedded scripts.
func IsFrameworkFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vue", ".svelte", ".astro":
		return true
	default:
		return false
	}
}

// ExtractScripts pulls every <script> block out of a framework file,
// preserving each block's byte offset relative to the outer file. The number
// of blocks is capped at maxScripts.
func ExtractScripts(path string, content []byte, maxScripts int) ([]ScriptBlock, error) {
	if !IsFrameworkFile(path) {
		return nil, nil
	}

	var blocks []ScriptBlock
	tokenizer := html.NewTokenizer(strings.NewReader(string(content)))
	inScript := false
	searchFrom := 0

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}
		switch tokenType {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			inScript = string(name) == "script"
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "script" {
				inScript = false
			}
		case html.TextToken:
			if !inScript {
				continue
			}
			raw := tokenizer.Raw()
			if len(strings.TrimSpace(string(raw))) == 0 {
				continue
			}
			if len(blocks) >= maxScripts {
				return nil, &TooManyScriptsError{Path: path, Count: len(blocks) + 1, Max: maxScripts}
			}
			// Locate the raw text in the original bytes. The tokenizer hands
			// back the verbatim slice, so an index search from the previous
			// block's end pins the offset.
			offset := indexFrom(content, raw, searchFrom)
			if offset < 0 {
				continue
			}
			searchFrom = offset + len(raw)
			blocks = append(blocks, ScriptBlock{
				Source: append([]byte(nil), raw...),
				Offset: uint32(offset),
			})
		}
	}

	return blocks, nil
}

func indexFrom(haystack, needle []byte, from int) int {
	if from < 0 || from > len(haystack) {
		return -1
	}
	idx := strings.Index(string(haystack[from:]), string(needle))
	if idx < 0 {
		return -1
	}
	return from + idx
}

// OffsetMap translates byte offsets in a concatenated extraction back to
// offsets in the original file, so spans reported by the parser line up with
// the source the user wrote.
type OffsetMap struct {
	segments []offsetSegment
}

type offsetSegment struct {
	concatStart uint32
	origStart   uint32
	length      uint32
}

// Translate maps a concatenated offset to the original file offset. Offsets
// landing in separator gaps clamp to the end of the preceding block.
func (m *OffsetMap) Translate(offset uint32) uint32 {
	for i := len(m.segments) - 1; i >= 0; i-- {
		seg := m.segments[i]
		if offset >= seg.concatStart {
			rel := offset - seg.concatStart
			if rel > seg.length {
				rel = seg.length
			}
			return seg.origStart + rel
		}
	}
	return offset
}

// Concatenate joins script blocks with blank-line separators and returns the
// combined source plus the offset map back to the original file.
func Concatenate(blocks []ScriptBlock) ([]byte, *OffsetMap) {
	var combined []byte
	m := &OffsetMap{}

	for i, block := range blocks {
		if i > 0 {
			combined = append(combined, '\n', '\n')
		}
		m.segments = append(m.segments, offsetSegment{
			concatStart: uint32(len(combined)),
			origStart:   block.Offset,
			length:      uint32(len(block.Source)),
		})
		combined = append(combined, block.Source...)
	}

	return combined, m
}
