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

package graph

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// FormatVersion is the binary serialization format version. Bump on any
// incompatible change to the serialized shape.
const FormatVersion uint32 = 1

// formatMagic identifies fob graph serialization.
var formatMagic = [4]byte{'F', 'O', 'B', 'G'}

// ErrIncompatibleFormat is returned when serialized bytes carry a different
// format version.
var ErrIncompatibleFormat = errors.New("incompatible graph format version")

// serializedGraph is the wire shape of a graph.
type serializedGraph struct {
	Modules      []*Module               `json:"modules"`
	Dependencies map[ModuleID][]ModuleID `json:"dependencies"`
	EntryPoints  []ModuleID              `json:"entryPoints"`
	ExternalDeps []*ExternalDependency   `json:"externalDependencies"`
}

func (g *ModuleGraph) snapshot() serializedGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := serializedGraph{
		Dependencies: make(map[ModuleID][]ModuleID, len(g.dependencies)),
	}
	for _, m := range g.modules {
		snap.Modules = append(snap.Modules, m)
	}
	sort.Slice(snap.Modules, func(i, j int) bool { return snap.Modules[i].ID < snap.Modules[j].ID })
	for a, deps := range g.dependencies {
		snap.Dependencies[a] = idSetToSlice(deps)
	}
	snap.EntryPoints = idSetToSlice(g.entryPoints)
	for _, dep := range g.externalDeps {
		snap.ExternalDeps = append(snap.ExternalDeps, dep)
	}
	sort.Slice(snap.ExternalDeps, func(i, j int) bool {
		return snap.ExternalDeps[i].Specifier < snap.ExternalDeps[j].Specifier
	})
	return snap
}

// ToBytes serializes the graph into the self-describing binary form: magic,
// big-endian u32 format version, then the JSON payload.
func (g *ModuleGraph) ToBytes() ([]byte, error) {
	payload, err := json.Marshal(g.snapshot())
	if err != nil {
		return nil, fmt.Errorf("encoding graph: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(formatMagic[:])
	if err := binary.Write(&buf, binary.BigEndian, FormatVersion); err != nil {
		return nil, err
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// FromBytes restores a graph serialized with ToBytes. A version mismatch
// returns ErrIncompatibleFormat.
func FromBytes(data []byte) (*ModuleGraph, error) {
	if len(data) < 8 || !bytes.Equal(data[:4], formatMagic[:]) {
		return nil, fmt.Errorf("not a fob graph: bad header")
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleFormat, version, FormatVersion)
	}

	var snap serializedGraph
	if err := json.Unmarshal(data[8:], &snap); err != nil {
		return nil, fmt.Errorf("decoding graph: %w", err)
	}

	g := NewModuleGraph()
	for _, m := range snap.Modules {
		g.AddModule(m)
	}
	for a, deps := range snap.Dependencies {
		for _, b := range deps {
			g.AddDependency(a, b)
		}
	}
	for _, dep := range snap.ExternalDeps {
		g.AddExternalDependency(dep)
	}
	g.mu.Lock()
	for _, entry := range snap.EntryPoints {
		g.entryPoints[entry] = struct{}{}
	}
	g.mu.Unlock()
	return g, nil
}

// ToJSON exports the graph as indented human-readable JSON. Output is
// deterministic for identical graphs.
func (g *ModuleGraph) ToJSON() ([]byte, error) {
	return json.MarshalIndent(g.snapshot(), "", "  ")
}
