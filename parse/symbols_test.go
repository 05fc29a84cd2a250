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

func analyze(t *testing.T, source string) *graph.SymbolTable {
	t.Helper()
	table, err := parse.AnalyzeSymbols("/proj/src/mod.ts", source, graph.SourceTS)
	require.NoError(t, err)
	return table
}

func TestAnalyzeSymbolKinds(t *testing.T) {
	table := analyze(t, `
const value = 1;
function compute() {}
class Service {}
type Alias = string;
interface Shape {}
enum Color { Red }
`)

	tests := []struct {
		name string
		kind graph.SymbolKind
	}{
		{"value", graph.SymbolVariable},
		{"compute", graph.SymbolFunction},
		{"Service", graph.SymbolClass},
		{"Alias", graph.SymbolTypeAlias},
		{"Shape", graph.SymbolInterface},
		{"Color", graph.SymbolEnum},
	}
	for _, tt := range tests {
		sym, ok := table.Get(tt.name)
		require.True(t, ok, "symbol %q not found", tt.name)
		assert.Equal(t, tt.kind, sym.Kind, "symbol %q", tt.name)
	}
}

func TestAnalyzeReadAndWriteCounts(t *testing.T) {
	table := analyze(t, `
let counter = 0;
function bump() {
  counter = counter + 1;
}
const doubled = counter * 2;
`)

	counter, ok := table.Get("counter")
	require.True(t, ok)
	assert.Equal(t, 1, counter.WriteCount, "one assignment")
	assert.Equal(t, 2, counter.ReadCount, "read in the sum and in doubled")
}

func TestAnalyzeQualifiedReferences(t *testing.T) {
	table := analyze(t, `
const config = { server: { port: 8080 } };
const port = config.server.port;
`)

	sym, ok := table.Get("config")
	require.True(t, ok)
	require.Len(t, sym.QualifiedReferences, 1)
	assert.Equal(t, []string{"server", "port"}, sym.QualifiedReferences[0].MemberPath)
}

func TestAnalyzeUnusedSymbol(t *testing.T) {
	table := analyze(t, `
const used = 1;
const unused = 2;
const total = used + 1;
`)

	unused := table.UnusedSymbols()
	names := make([]string, len(unused))
	for i, s := range unused {
		names[i] = s.Name
	}
	assert.Contains(t, names, "unused")
	assert.NotContains(t, names, "used")
}

func TestAnalyzeUnreachableCode(t *testing.T) {
	table := analyze(t, `
function early() {
  return 1;
  console.log('never');
}
`)

	require.Len(t, table.UnreachableCode, 1)
}

func TestMarkExportsLinksExportStatus(t *testing.T) {
	table := analyze(t, `
const visible = 1;
const hidden = 2;
`)
	table.MarkExports([]string{"visible"})

	visible, _ := table.Get("visible")
	hidden, _ := table.Get("hidden")
	assert.True(t, visible.IsExported)
	assert.False(t, hidden.IsExported)
}
