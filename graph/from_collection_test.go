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
	"bennypowers.dev/fob/internal/mapfs"
)

func collectionFixture() *graph.CollectionState {
	state := graph.NewCollectionState()

	libPath := "/proj/src/lib.ts"
	state.Add(&graph.CollectedModule{
		Path: "/proj/src/index.ts",
		Code: "import {helper} from './lib';\nimport r from 'react';\nexport const a = 1;\n",
		Imports: []graph.CollectedImport{
			{
				Source: "./lib",
				Specifiers: []graph.CollectedSpecifier{
					{Kind: graph.CollectedNamed, Imported: "helper", Local: "helper"},
				},
				Kind:         graph.CollectedStatic,
				ResolvedPath: &libPath,
			},
			{
				Source: "react",
				Specifiers: []graph.CollectedSpecifier{
					{Kind: graph.CollectedDefault, Local: "r"},
				},
				Kind: graph.CollectedStatic,
			},
		},
		Exports: []graph.CollectedExport{
			{Kind: graph.CollectedExportNamed, Exported: "a", Local: "a"},
		},
		IsEntry: true,
	})

	state.Add(&graph.CollectedModule{
		Path: libPath,
		Code: "export function helper() {}\n",
		Exports: []graph.CollectedExport{
			{Kind: graph.CollectedExportNamed, Exported: "helper", Local: "helper"},
		},
	})

	state.EntrySpecifiers = []string{"/proj/src/index.ts"}
	state.EntryPaths = []string{"/proj/src/index.ts"}
	return state
}

// fixtureFS backs the collection fixture so module ids canonicalize.
func fixtureFS() *mapfs.MapFileSystem {
	mfs := mapfs.New()
	mfs.AddFile("/proj/src/index.ts", "", 0644)
	mfs.AddFile("/proj/src/lib.ts", "", 0644)
	return mfs
}

func TestFromCollectionBuildsEdgesAndExternals(t *testing.T) {
	g, err := graph.FromCollection(fixtureFS(), collectionFixture(), nil)
	require.NoError(t, err)
	require.NoError(t, g.CheckInvariants())

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []graph.ModuleID{"/proj/src/index.ts"}, g.EntryPoints())
	assert.Equal(t, []graph.ModuleID{"/proj/src/lib.ts"}, g.Dependencies("/proj/src/index.ts"))
	assert.Equal(t, []graph.ModuleID{"/proj/src/index.ts"}, g.Dependents("/proj/src/lib.ts"))

	externals := g.ExternalDependencies()
	require.Len(t, externals, 1)
	assert.Equal(t, "react", externals[0].Specifier)
	assert.Equal(t, []graph.ModuleID{"/proj/src/index.ts"}, externals[0].Importers)
}

func TestFromCollectionResolvesImportTargets(t *testing.T) {
	g, err := graph.FromCollection(fixtureFS(), collectionFixture(), nil)
	require.NoError(t, err)

	index, ok := g.Module("/proj/src/index.ts")
	require.True(t, ok)
	require.Len(t, index.Imports, 2)

	local := index.Imports[0]
	require.NotNil(t, local.ResolvedTo)
	assert.Equal(t, graph.ModuleID("/proj/src/lib.ts"), *local.ResolvedTo)

	external := index.Imports[1]
	assert.Nil(t, external.ResolvedTo)
}

func TestFromCollectionInfersExportsKind(t *testing.T) {
	g, err := graph.FromCollection(fixtureFS(), collectionFixture(), nil)
	require.NoError(t, err)

	index, _ := g.Module("/proj/src/index.ts")
	assert.Equal(t, graph.ExportsESM, index.ExportsKind)

	state := graph.NewCollectionState()
	state.Add(&graph.CollectedModule{Path: "/proj/src/empty.ts"})
	mfs := mapfs.New()
	mfs.AddFile("/proj/src/empty.ts", "", 0644)
	g2, err := graph.FromCollection(mfs, state, nil)
	require.NoError(t, err)
	empty, _ := g2.Module("/proj/src/empty.ts")
	assert.Equal(t, graph.ExportsNone, empty.ExportsKind)
}

func TestFromCollectionLinksExportsToSymbols(t *testing.T) {
	analyzer := func(path, code string, sourceType graph.SourceType) (*graph.SymbolTable, error) {
		table := graph.NewSymbolTable()
		table.Add(&graph.Symbol{Name: "a", Kind: graph.SymbolVariable})
		table.Add(&graph.Symbol{Name: "internal", Kind: graph.SymbolVariable})
		return table, nil
	}

	g, err := graph.FromCollection(fixtureFS(), collectionFixture(), analyzer)
	require.NoError(t, err)

	index, _ := g.Module("/proj/src/index.ts")
	exported, ok := index.Symbols.Get("a")
	require.True(t, ok)
	assert.True(t, exported.IsExported)
	internal, ok := index.Symbols.Get("internal")
	require.True(t, ok)
	assert.False(t, internal.IsExported)
}

func TestFromCollectionSkipsExternalModules(t *testing.T) {
	state := collectionFixture()
	state.Add(&graph.CollectedModule{Path: "react", IsExternal: true})

	g, err := graph.FromCollection(fixtureFS(), state, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestFromCollectionStarExportFlag(t *testing.T) {
	state := graph.NewCollectionState()
	state.Add(&graph.CollectedModule{
		Path: "/proj/src/barrel.ts",
		Exports: []graph.CollectedExport{
			{Kind: graph.CollectedExportAll, Source: "./origin"},
		},
	})
	mfs := mapfs.New()
	mfs.AddFile("/proj/src/barrel.ts", "", 0644)

	g, err := graph.FromCollection(mfs, state, nil)
	require.NoError(t, err)

	barrel, _ := g.Module("/proj/src/barrel.ts")
	assert.True(t, barrel.HasStarExports)
	star, ok := barrel.Export(graph.StarExportName)
	require.True(t, ok)
	assert.Equal(t, graph.ExportStarReExport, star.Kind)
	require.NotNil(t, star.ReExportedFrom)
	assert.Equal(t, "./origin", *star.ReExportedFrom)
}
