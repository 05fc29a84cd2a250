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

package cache

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"lukechampine.com/blake3"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
)

// KeySize is the digest width in bytes.
const KeySize = 32

// Key is a content-addressed cache key: a BLAKE3 digest over every input
// that can affect the build output.
type Key [KeySize]byte

// String returns the hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Bytes returns the raw digest.
func (k Key) Bytes() []byte {
	return k[:]
}

// ComputeKey derives the cache key for a build.
//
// The digest covers, in a canonical encoding: the bundling engine version,
// the sorted entry paths each paired with a hash of their contents, the
// serialized build options with the cache configuration omitted, the sorted
// virtual file ids each paired with a hash of their source, and the
// configured environment variables.
func ComputeKey(fsys fs.FileSystem, cfg *config.BuildConfig, engineVersion string) (Key, error) {
	hasher := blake3.New(KeySize, nil)

	writeString := func(s string) {
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(len(s)))
		hasher.Write(length[:])
		hasher.Write([]byte(s))
	}

	writeString(engineVersion)

	entries := append([]string(nil), cfg.Entries...)
	sort.Strings(entries)
	for _, entry := range entries {
		writeString(entry)
		if source, ok := cfg.VirtualFiles[entry]; ok {
			sum := blake3.Sum256([]byte(source))
			hasher.Write(sum[:])
			continue
		}
		path := entry
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Cwd, path)
		}
		content, err := fsys.ReadFile(path)
		if err != nil {
			return Key{}, fmt.Errorf("hashing entry %s: %w", entry, err)
		}
		sum := blake3.Sum256(content)
		hasher.Write(sum[:])
	}

	options, err := canonicalOptions(cfg)
	if err != nil {
		return Key{}, err
	}
	writeString(string(options))

	virtualIDs := make([]string, 0, len(cfg.VirtualFiles))
	for id := range cfg.VirtualFiles {
		virtualIDs = append(virtualIDs, id)
	}
	sort.Strings(virtualIDs)
	for _, id := range virtualIDs {
		writeString(id)
		sum := blake3.Sum256([]byte(cfg.VirtualFiles[id]))
		hasher.Write(sum[:])
	}

	envVars := append([]string(nil), cfg.Cache.EnvVars...)
	sort.Strings(envVars)
	for _, name := range envVars {
		writeString(name + "=" + os.Getenv(name))
	}

	var key Key
	copy(key[:], hasher.Sum(nil))
	return key, nil
}

// canonicalOptions serializes the build options deterministically, omitting
// the cache configuration so cache settings never invalidate the cache.
func canonicalOptions(cfg *config.BuildConfig) ([]byte, error) {
	stripped := *cfg
	stripped.Cache = config.Cache{}
	// Entries and virtual files are hashed separately with their contents.
	stripped.Entries = nil
	stripped.VirtualFiles = nil

	data, err := json.Marshal(&stripped)
	if err != nil {
		return nil, fmt.Errorf("serializing options: %w", err)
	}
	return data, nil
}
