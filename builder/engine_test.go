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
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"

	"bennypowers.dev/fob/config"
)

func TestEngineFormatMapping(t *testing.T) {
	assert.Equal(t, api.FormatESModule, engineFormat(config.FormatESM))
	assert.Equal(t, api.FormatCommonJS, engineFormat(config.FormatCJS))
	assert.Equal(t, api.FormatIIFE, engineFormat(config.FormatIIFE))
}

func TestEngineSourcemapMapping(t *testing.T) {
	assert.Equal(t, api.SourceMapNone, engineSourcemap(config.SourcemapNone))
	assert.Equal(t, api.SourceMapInline, engineSourcemap(config.SourcemapInline))
	assert.Equal(t, api.SourceMapLinked, engineSourcemap(config.SourcemapExternal))
	assert.Equal(t, api.SourceMapExternal, engineSourcemap(config.SourcemapHidden))
}

func TestIsChunkFile(t *testing.T) {
	assert.True(t, isChunkFile("dist/index.js"))
	assert.True(t, isChunkFile("dist/chunk.mjs"))
	assert.False(t, isChunkFile("dist/styles.css"))
	assert.False(t, isChunkFile("dist/logo.png"))
}

func TestBundleErrorFormatsDiagnostics(t *testing.T) {
	err := &BundleError{Messages: []api.Message{
		{Text: "could not resolve import", Location: &api.Location{File: "src/index.ts", Line: 3, Column: 9}},
		{Text: "second failure"},
	}}
	assert.Contains(t, err.Error(), "could not resolve import")
	assert.Contains(t, err.Error(), "src/index.ts:3:9")
	assert.Contains(t, err.Error(), "1 more")
}

func TestResolveEntryForEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Cwd = "/proj"
	cfg.VirtualFiles = map[string]string{"virtual:main": ""}

	assert.Equal(t, "virtual:main", resolveEntryForEngine(cfg, "virtual:main"))
	assert.Equal(t, "/proj/src/index.ts", resolveEntryForEngine(cfg, "src/index.ts"))
	assert.Equal(t, "/abs/entry.ts", resolveEntryForEngine(cfg, "/abs/entry.ts"))
}
