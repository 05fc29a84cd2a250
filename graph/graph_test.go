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

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/fob/graph"
)

func module(id string, opts ...func(*graph.Module)) *graph.Module {
	m := &graph.Module{
		ID:         graph.ModuleID(id),
		Path:       id,
		SourceType: graph.SourceTS,
		Symbols:    graph.NewSymbolTable(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func entry(m *graph.Module) { m.IsEntry = true }

func TestAddDependencyMaintainsBothEdgeSets(t *testing.T) {
	g := graph.NewModuleGraph()
	g.AddModule(module("/src/a.ts", entry))
	g.AddModule(module("/src/b.ts"))
	g.AddDependency("/src/a.ts", "/src/b.ts")

	assert.Equal(t, []graph.ModuleID{"/src/b.ts"}, g.Dependencies("/src/a.ts"))
	assert.Equal(t, []graph.ModuleID{"/src/a.ts"}, g.Dependents("/src/b.ts"))
	require.NoError(t, g.CheckInvariants())
}

func TestAddDependencyAbsorbsDuplicates(t *testing.T) {
	g := graph.NewModuleGraph()
	g.AddModule(module("/src/a.ts", entry))
	g.AddModule(module("/src/b.ts"))
	g.AddDependency("/src/a.ts", "/src/b.ts")
	g.AddDependency("/src/a.ts", "/src/b.ts")

	assert.Len(t, g.Dependencies("/src/a.ts"), 1)
	assert.Equal(t, 1, g.Statistics().TotalDependencies)
}

func TestAddModuleIsIdempotentOnID(t *testing.T) {
	g := graph.NewModuleGraph()
	g.AddModule(module("/src/a.ts"))
	replacement := module("/src/a.ts")
	replacement.HasSideEffects = true
	g.AddModule(replacement)

	assert.Equal(t, 1, g.Len())
	m, ok := g.Module("/src/a.ts")
	require.True(t, ok)
	assert.True(t, m.HasSideEffects)
}

func TestAddModuleAggregatesUnresolvedImports(t *testing.T) {
	g := graph.NewModuleGraph()
	m := module("/src/index.ts", entry)
	m.Imports = []graph.Import{
		{Source: "react", Kind: graph.ImportStatic, Specifiers: []graph.ImportSpecifier{graph.DefaultSpecifier()}},
		{Source: "lodash", Kind: graph.ImportStatic, Specifiers: []graph.ImportSpecifier{graph.DefaultSpecifier()}},
	}
	g.AddModule(m)

	deps := g.ExternalDependencies()
	require.Len(t, deps, 2)
	// Sorted by specifier.
	assert.Equal(t, "lodash", deps[0].Specifier)
	assert.Equal(t, "react", deps[1].Specifier)
	assert.Equal(t, []graph.ModuleID{"/src/index.ts"}, deps[0].Importers)
	assert.Equal(t, []graph.ModuleID{"/src/index.ts"}, deps[1].Importers)
}

func TestEntryPointsTrackEntryModules(t *testing.T) {
	g := graph.NewModuleGraph()
	g.AddModule(module("/src/a.ts", entry))
	g.AddModule(module("/src/b.ts"))

	assert.Equal(t, []graph.ModuleID{"/src/a.ts"}, g.EntryPoints())
}

func TestStatistics(t *testing.T) {
	g := graph.NewModuleGraph()
	a := module("/src/a.ts", entry)
	a.OriginalSize = 100
	b := module("/src/b.ts")
	b.OriginalSize = 50
	b.HasSideEffects = true
	g.AddModule(a)
	g.AddModule(b)
	g.AddDependency(a.ID, b.ID)

	stats := g.Statistics()
	assert.Equal(t, 2, stats.TotalModules)
	assert.Equal(t, 1, stats.TotalDependencies)
	assert.Equal(t, 1, stats.EntryPoints)
	assert.Equal(t, 150, stats.TotalOriginalSize)
	assert.Equal(t, 1, stats.ModulesWithSideEffects)
}

func TestCheckInvariantsDetectsDanglingEdge(t *testing.T) {
	g := graph.NewModuleGraph()
	g.AddModule(module("/src/a.ts"))
	// b is never added as a module.
	g.AddDependency("/src/a.ts", "/src/b.ts")

	err := g.CheckInvariants()
	require.Error(t, err)
	var inconsistency *graph.InconsistencyError
	assert.ErrorAs(t, err, &inconsistency)
}
