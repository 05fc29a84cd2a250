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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DBFileName is the single database file under the cache directory.
const DBFileName = "cache.db"

var (
	buildsBucket = []byte("builds")
	metaBucket   = []byte("meta")
	formatKey    = []byte("format_version")
)

// Cache lookup errors.
var (
	// ErrMiss means the key is not in the store. Clean miss: build proceeds.
	ErrMiss = errors.New("cache miss")
	// ErrCorrupt means the record exists but cannot be decoded.
	ErrCorrupt = errors.New("cache record corrupt")
	// ErrIncompatible means the record or store was written by a different
	// format version.
	ErrIncompatible = errors.New("cache format incompatible")
)

// Store is the bbolt-backed cache store. Writes go through bbolt's
// transactional backend, so concurrent builds serialize on the database
// lock.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the cache database under dir, creating the directory
// if needed. A store written by a different format version fails with
// ErrIncompatible.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, DBFileName), 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// initSchema creates buckets and records the store format version; an
// existing store with a different version is rejected.
func (s *Store) initSchema() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(buildsBucket); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		existing := meta.Get(formatKey)
		if existing == nil {
			var versionBytes [4]byte
			binary.BigEndian.PutUint32(versionBytes[:], FormatVersion)
			return meta.Put(formatKey, versionBytes[:])
		}
		if len(existing) != 4 || binary.BigEndian.Uint32(existing) != FormatVersion {
			return ErrIncompatible
		}
		return nil
	})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a cached build. Returns ErrMiss when absent, ErrCorrupt when
// undecodable, ErrIncompatible when the record's format version differs.
func (s *Store) Get(key Key) (*CachedBuild, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(buildsBucket).Get(key.Bytes())
		if value == nil {
			return ErrMiss
		}
		data = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	build, err := DecodeCachedBuild(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !build.Metadata.IsCompatible() {
		return nil, fmt.Errorf("%w: record version %d, current %d",
			ErrIncompatible, build.Metadata.FormatVersion, FormatVersion)
	}
	return build, nil
}

// Put writes a cached build under the key.
func (s *Store) Put(key Key, build *CachedBuild) error {
	data, err := build.Encode()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(buildsBucket).Put(key.Bytes(), data)
	})
}

// TryLoad attempts a cache lookup.
func TryLoad(store *Store, key Key) (*CachedBuild, error) {
	return store.Get(key)
}

// TrySave writes a build to the store. Failures here are non-fatal to the
// build; callers log and continue.
func TrySave(store *Store, key Key, build *CachedBuild) error {
	return store.Put(key, build)
}

// ShouldForceRebuild reports whether cache reads are bypassed, from the
// config flag or the environment sentinel. The environment is read once at
// driver start.
func ShouldForceRebuild(forceRebuild bool, env func(string) string) bool {
	if forceRebuild {
		return true
	}
	return env("FOB_FORCE_REBUILD") != ""
}
