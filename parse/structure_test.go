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

package parse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/fob/graph"
	"bennypowers.dev/fob/parse"
)

func parseTS(t *testing.T, source string) *parse.Structure {
	t.Helper()
	structure, err := parse.ParseStructure([]byte(source), graph.SourceTS)
	require.NoError(t, err)
	return structure
}

func TestParseNamedImports(t *testing.T) {
	s := parseTS(t, "import {a, b as c} from './lib';\n")

	require.Len(t, s.Imports, 1)
	imp := s.Imports[0]
	assert.Equal(t, "./lib", imp.Source)
	assert.Equal(t, graph.CollectedStatic, imp.Kind)
	require.Len(t, imp.Specifiers, 2)
	assert.Equal(t, "a", imp.Specifiers[0].Imported)
	assert.Equal(t, "a", imp.Specifiers[0].Local)
	assert.Equal(t, "b", imp.Specifiers[1].Imported)
	assert.Equal(t, "c", imp.Specifiers[1].Local)
}

func TestParseDefaultAndNamespaceImports(t *testing.T) {
	s := parseTS(t, "import React from 'react';\nimport * as lodash from 'lodash';\n")

	require.Len(t, s.Imports, 2)
	assert.Equal(t, graph.CollectedDefault, s.Imports[0].Specifiers[0].Kind)
	assert.Equal(t, "React", s.Imports[0].Specifiers[0].Local)
	assert.Equal(t, graph.CollectedNamespace, s.Imports[1].Specifiers[0].Kind)
	assert.Equal(t, "lodash", s.Imports[1].Specifiers[0].Local)
}

func TestParseSideEffectOnlyImport(t *testing.T) {
	s := parseTS(t, "import './styles';\n")

	require.Len(t, s.Imports, 1)
	assert.Empty(t, s.Imports[0].Specifiers)
}

func TestParseTypeOnlyImport(t *testing.T) {
	s := parseTS(t, "import type {Config} from './config';\n")

	require.Len(t, s.Imports, 1)
	assert.Equal(t, graph.CollectedTypeOnly, s.Imports[0].Kind)
}

func TestParseDynamicImport(t *testing.T) {
	s := parseTS(t, "export async function load() {\n  return import('./lazy');\n}\n")

	require.Len(t, s.Imports, 1)
	assert.Equal(t, graph.CollectedDynamic, s.Imports[0].Kind)
	assert.Equal(t, "./lazy", s.Imports[0].Source)
}

func TestParseRequire(t *testing.T) {
	s := parseTS(t, "const fs = require('fs');\n")

	require.Len(t, s.Imports, 1)
	assert.Equal(t, graph.CollectedRequire, s.Imports[0].Kind)
	assert.Equal(t, "fs", s.Imports[0].Source)
}

func TestParseNamedExports(t *testing.T) {
	s := parseTS(t, "export const a = 1;\nexport function helper() {}\nexport class Widget {}\n")

	require.Len(t, s.Exports, 3)
	names := []string{s.Exports[0].Exported, s.Exports[1].Exported, s.Exports[2].Exported}
	assert.Equal(t, []string{"a", "helper", "Widget"}, names)
}

func TestParseDefaultExport(t *testing.T) {
	s := parseTS(t, "export default function main() {}\n")

	require.Len(t, s.Exports, 1)
	assert.Equal(t, graph.CollectedExportDefault, s.Exports[0].Kind)
}

func TestParseExportClauseWithAlias(t *testing.T) {
	s := parseTS(t, "const internal = 1;\nexport {internal as external};\n")

	require.Len(t, s.Exports, 1)
	assert.Equal(t, "external", s.Exports[0].Exported)
	assert.Equal(t, "internal", s.Exports[0].Local)
}

func TestParseStarReExport(t *testing.T) {
	s := parseTS(t, "export * from './other';\n")

	require.Len(t, s.Exports, 1)
	assert.Equal(t, graph.CollectedExportAll, s.Exports[0].Kind)
	assert.Equal(t, "./other", s.Exports[0].Source)

	// The walker follows re-export sources through a synthetic import.
	require.Len(t, s.Imports, 1)
	assert.Equal(t, "./other", s.Imports[0].Source)
}

func TestParseNamedReExport(t *testing.T) {
	s := parseTS(t, "export {helper} from './helpers';\n")

	require.Len(t, s.Exports, 1)
	assert.Equal(t, "helper", s.Exports[0].Exported)
	assert.Equal(t, "./helpers", s.Exports[0].Source)
	require.Len(t, s.Imports, 1)
	require.Len(t, s.Imports[0].Specifiers, 1)
	assert.Equal(t, "helper", s.Imports[0].Specifiers[0].Imported)
}

func TestSideEffectDetection(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"pure declarations", "export const a = 1;\nfunction f() {}\n", false},
		{"top-level call", "console.log('boot');\n", true},
		{"top-level loop", "for (let i = 0; i < 3; i++) {}\n", true},
		{"empty file", "", false},
		{"imports only", "import './x';\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseTS(t, tt.source)
			assert.Equal(t, tt.want, s.HasSideEffects)
		})
	}
}

func TestParseSpansReferenceSourceBytes(t *testing.T) {
	source := "import {a} from './lib';\n"
	s := parseTS(t, source)

	require.Len(t, s.Imports, 1)
	assert.Equal(t, uint32(0), s.Imports[0].Start)
	assert.Equal(t, uint32(len(source)-1), s.Imports[0].End)
}

func TestParseTSXSource(t *testing.T) {
	source := "import {Widget} from './widget';\nexport const App = () => <Widget />;\n"
	structure, err := parse.ParseStructure([]byte(source), graph.SourceTSX)
	require.NoError(t, err)

	require.Len(t, structure.Imports, 1)
	assert.Equal(t, "./widget", structure.Imports[0].Source)
	require.Len(t, structure.Exports, 1)
	assert.Equal(t, "App", structure.Exports[0].Exported)
}
