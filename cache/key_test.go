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

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/fob/cache"
	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/internal/mapfs"
)

func keyFixture(t *testing.T) (*mapfs.MapFileSystem, *config.BuildConfig) {
	t.Helper()
	mfs := mapfs.New()
	mfs.AddFile("/proj/src/index.ts", "export const a = 1;\n", 0644)
	mfs.AddFile("/proj/src/other.ts", "export const b = 2;\n", 0644)

	cfg := config.Default()
	cfg.Cwd = "/proj"
	cfg.Entries = []string{"/proj/src/index.ts"}
	return mfs, cfg
}

func TestComputeKeyIsDeterministic(t *testing.T) {
	mfs, cfg := keyFixture(t)

	first, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)
	second, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeKeyChangesWithContent(t *testing.T) {
	mfs, cfg := keyFixture(t)
	before, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	mfs.AddFile("/proj/src/index.ts", "export const a = 2;\n", 0644)
	after, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestComputeKeyChangesWithEngineVersion(t *testing.T) {
	mfs, cfg := keyFixture(t)
	v1, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)
	v2, err := cache.ComputeKey(mfs, cfg, "v2.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}

func TestComputeKeyEntryOrderIndependent(t *testing.T) {
	mfs, cfg := keyFixture(t)
	cfg.Entries = []string{"/proj/src/index.ts", "/proj/src/other.ts"}
	forward, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	cfg.Entries = []string{"/proj/src/other.ts", "/proj/src/index.ts"}
	reversed, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, forward, reversed, "entries are sorted before hashing")
}

func TestComputeKeyIgnoresCacheConfig(t *testing.T) {
	mfs, cfg := keyFixture(t)
	before, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	cfg.Cache.Dir = "/elsewhere"
	cfg.Cache.ForceRebuild = true
	after, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, before, after, "cache settings never invalidate the cache")
}

func TestComputeKeyChangesWithOptions(t *testing.T) {
	mfs, cfg := keyFixture(t)
	before, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	cfg.MinifyLevel = config.MinifyIdentifiers
	after, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestComputeKeyCoversVirtualFiles(t *testing.T) {
	mfs, cfg := keyFixture(t)
	before, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	cfg.VirtualFiles = map[string]string{"virtual:extra": "export const v = 1;\n"}
	after, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestComputeKeyCoversEnvVars(t *testing.T) {
	mfs, cfg := keyFixture(t)
	cfg.Cache.EnvVars = []string{"NODE_ENV"}

	t.Setenv("NODE_ENV", "development")
	dev, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	t.Setenv("NODE_ENV", "production")
	prod, err := cache.ComputeKey(mfs, cfg, "v1.0.0")
	require.NoError(t, err)

	assert.NotEqual(t, dev, prod)
}

func TestShouldForceRebuild(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(name string) string { return vals[name] }
	}

	assert.False(t, cache.ShouldForceRebuild(false, env(nil)))
	assert.True(t, cache.ShouldForceRebuild(true, env(nil)))
	assert.True(t, cache.ShouldForceRebuild(false, env(map[string]string{"FOB_FORCE_REBUILD": "1"})))
}
