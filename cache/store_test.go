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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/fob/cache"
)

func testKey(b byte) cache.Key {
	var key cache.Key
	for i := range key {
		key[i] = b
	}
	return key
}

func testBuild() *cache.CachedBuild {
	return &cache.CachedBuild{
		Metadata: cache.NewMetadata(),
		Outputs: []cache.SerializedOutput{{
			Kind:     cache.OutputChunk,
			Name:     "index",
			Filename: "dist/index.js",
			Code:     "export const a = 1;\n",
			IsEntry:  true,
		}},
		GraphJSON:   `{"modules":[]}`,
		EntryPoints: []string{"/proj/src/index.ts"},
	}
}

func TestStoreMissOnUnknownKey(t *testing.T) {
	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = cache.TryLoad(store, testKey(1))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestStorePutGetRoundTrip(t *testing.T) {
	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	key := testKey(2)
	build := testBuild()
	require.NoError(t, cache.TrySave(store, key, build))

	loaded, err := cache.TryLoad(store, key)
	require.NoError(t, err)
	assert.Equal(t, build.Outputs, loaded.Outputs)
	assert.Equal(t, build.GraphJSON, loaded.GraphJSON)
	assert.Equal(t, build.EntryPoints, loaded.EntryPoints)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	key := testKey(3)

	store, err := cache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(key, testBuild()))
	require.NoError(t, store.Close())

	reopened, err := cache.Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "dist/index.js", loaded.Outputs[0].Filename)
}

func TestStoreIncompatibleRecordVersion(t *testing.T) {
	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	key := testKey(4)
	build := testBuild()
	build.Metadata.FormatVersion = cache.FormatVersion + 1
	require.NoError(t, store.Put(key, build))

	_, err = store.Get(key)
	assert.ErrorIs(t, err, cache.ErrIncompatible)
}

func TestStoreCreatesSingleDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.Open(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(filepath.Join(dir, cache.DBFileName))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMetadataCompatibility(t *testing.T) {
	meta := cache.NewMetadata()
	assert.True(t, meta.IsCompatible())

	meta.FormatVersion = cache.FormatVersion + 1
	assert.False(t, meta.IsCompatible())
}
