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

// Package cache provides the persistent, content-addressed build cache:
// BLAKE3 key computation over the build inputs and a bbolt-backed store of
// serialized builds.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"bennypowers.dev/fob/internal/version"
)

// FormatVersion is the cached-build record format. Records written with a
// different version read back as incompatible.
const FormatVersion uint32 = 1

// Metadata validates a cached record against the current binary.
type Metadata struct {
	FobVersion    string `json:"fobVersion"`
	FormatVersion uint32 `json:"formatVersion"`
	CreatedAt     int64  `json:"createdAt"`
}

// NewMetadata stamps metadata for a record written now.
func NewMetadata() Metadata {
	return Metadata{
		FobVersion:    version.GetVersion(),
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().Unix(),
	}
}

// IsCompatible reports whether the record can be loaded by this binary.
func (m Metadata) IsCompatible() bool {
	return m.FormatVersion == FormatVersion
}

// OutputKind distinguishes chunks from assets.
type OutputKind string

const (
	OutputChunk OutputKind = "chunk"
	OutputAsset OutputKind = "asset"
)

// SerializedOutput is one build artifact in a cached record.
type SerializedOutput struct {
	Kind OutputKind `json:"kind"`

	Name     string `json:"name,omitempty"`
	Filename string `json:"filename"`

	// Code is chunk source text; Contents carries asset bytes.
	Code     string `json:"code,omitempty"`
	Contents []byte `json:"contents,omitempty"`

	MapJSON string `json:"mapJson,omitempty"`

	IsEntry        bool     `json:"isEntry"`
	ModuleIDs      []string `json:"moduleIds,omitempty"`
	Imports        []string `json:"imports,omitempty"`
	DynamicImports []string `json:"dynamicImports,omitempty"`
	Exports        []string `json:"exports,omitempty"`
}

// Metrics records cache behavior for one build.
type Metrics struct {
	Hit bool `json:"hit"`
	// Key is the hex form of the cache key consulted.
	Key string `json:"key"`
	// LoadDuration is how long the lookup took.
	LoadDuration time.Duration `json:"loadDuration"`
}

// CachedBuild is the serialized representation of a completed build.
type CachedBuild struct {
	Metadata Metadata `json:"metadata"`

	Outputs []SerializedOutput `json:"outputs"`

	// GraphJSON is the serialized module graph.
	GraphJSON string `json:"graphJson"`

	EntryPoints []string `json:"entryPoints"`

	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`

	Cache Metrics `json:"cache"`
}

// Encode serializes the record for storage.
func (b *CachedBuild) Encode() ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding cached build: %w", err)
	}
	return data, nil
}

// DecodeCachedBuild restores a record from storage bytes.
func DecodeCachedBuild(data []byte) (*CachedBuild, error) {
	var build CachedBuild
	if err := json.Unmarshal(data, &build); err != nil {
		return nil, fmt.Errorf("decoding cached build: %w", err)
	}
	return &build, nil
}
