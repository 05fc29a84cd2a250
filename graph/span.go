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

// SourceSpan identifies a byte range in an original source file.
//
// Offsets always reference the original file's bytes, never an extracted
// sub-region: spans reported against extracted framework scripts must be
// translated back before they are stored here.
type SourceSpan struct {
	File  string `json:"file"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// NewSourceSpan constructs a span over [start, end) in file.
func NewSourceSpan(file string, start, end uint32) SourceSpan {
	return SourceSpan{File: file, Start: start, End: end}
}

// LineColumn derives the 1-indexed line and column of the span start from the
// original source text.
func (s SourceSpan) LineColumn(source []byte) (line, col int) {
	line, col = 1, 1
	end := int(s.Start)
	if end > len(source) {
		end = len(source)
	}
	for _, b := range source[:end] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
