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
	"fmt"
	"sort"
	"sync"
)

// ModuleGraph is the module dependency graph.
//
// Forward and reverse edges are stored as two separate mappings and always
// updated together: for every edge a → b in dependencies there is a matching
// b → a in dependents. External specifiers never appear as edge endpoints;
// they live only in the external dependency aggregate.
//
// One reader-writer lock protects the state. Query methods return snapshots
// so callers never hold the guard; guards are never held across blocking
// operations.
type ModuleGraph struct {
	mu sync.RWMutex

	modules      map[ModuleID]*Module
	dependencies map[ModuleID]map[ModuleID]struct{}
	dependents   map[ModuleID]map[ModuleID]struct{}
	entryPoints  map[ModuleID]struct{}
	externalDeps map[string]*ExternalDependency
}

// NewModuleGraph creates an empty graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		modules:      make(map[ModuleID]*Module),
		dependencies: make(map[ModuleID]map[ModuleID]struct{}),
		dependents:   make(map[ModuleID]map[ModuleID]struct{}),
		entryPoints:  make(map[ModuleID]struct{}),
		externalDeps: make(map[string]*ExternalDependency),
	}
}

// AddModule inserts a module, replacing any prior record for the same id.
//
// Entry modules are added to the entry point set. Imports with no resolved
// target and a non-empty source are aggregated into the external dependency
// records.
func (g *ModuleGraph) AddModule(m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.modules[m.ID] = m
	if m.IsEntry {
		g.entryPoints[m.ID] = struct{}{}
	}
	for _, imp := range m.Imports {
		if imp.ResolvedTo != nil || imp.Source == "" {
			continue
		}
		dep, ok := g.externalDeps[imp.Source]
		if !ok {
			dep = NewExternalDependency(imp.Source)
			g.externalDeps[imp.Source] = dep
		}
		dep.PushImporter(m.ID)
	}
}

// AddDependency records the edge a → b in both directions. Duplicate edges
// are absorbed. Existence of b is not validated; the walker guarantees it.
func (g *ModuleGraph) AddDependency(a, b ModuleID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	fwd, ok := g.dependencies[a]
	if !ok {
		fwd = make(map[ModuleID]struct{})
		g.dependencies[a] = fwd
	}
	fwd[b] = struct{}{}

	rev, ok := g.dependents[b]
	if !ok {
		rev = make(map[ModuleID]struct{})
		g.dependents[b] = rev
	}
	rev[a] = struct{}{}
}

// AddExternalDependency merges an external dependency record into the
// aggregate.
func (g *ModuleGraph) AddExternalDependency(dep *ExternalDependency) {
	g.mu.Lock()
	defer g.mu.Unlock()

	existing, ok := g.externalDeps[dep.Specifier]
	if !ok {
		g.externalDeps[dep.Specifier] = dep
		return
	}
	for _, importer := range dep.Importers {
		existing.PushImporter(importer)
	}
}

// Module returns the module for an id.
func (g *ModuleGraph) Module(id ModuleID) (*Module, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.modules[id]
	return m, ok
}

// Dependencies returns a snapshot of a module's forward edges, sorted by id.
func (g *ModuleGraph) Dependencies(id ModuleID) []ModuleID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return idSetToSlice(g.dependencies[id])
}

// Dependents returns a snapshot of a module's reverse edges.
func (g *ModuleGraph) Dependents(id ModuleID) []ModuleID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return idSetToSlice(g.dependents[id])
}

// Modules returns a snapshot of all modules, sorted by id for deterministic
// iteration.
func (g *ModuleGraph) Modules() []*Module {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Module, 0, len(g.modules))
	for _, m := range g.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EntryPoints returns the entry point ids, sorted.
func (g *ModuleGraph) EntryPoints() []ModuleID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return idSetToSlice(g.entryPoints)
}

// ExternalDependencies returns the aggregated external dependency records,
// sorted by specifier.
func (g *ModuleGraph) ExternalDependencies() []*ExternalDependency {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*ExternalDependency, 0, len(g.externalDeps))
	for _, dep := range g.externalDeps {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Specifier < out[j].Specifier })
	return out
}

// Len returns the number of modules.
func (g *ModuleGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.modules)
}

// GraphStatistics aggregates counts over a graph.
type GraphStatistics struct {
	TotalModules           int `json:"totalModules"`
	TotalDependencies      int `json:"totalDependencies"`
	EntryPoints            int `json:"entryPoints"`
	ExternalDependencies   int `json:"externalDependencies"`
	TotalOriginalSize      int `json:"totalOriginalSize"`
	ModulesWithSideEffects int `json:"modulesWithSideEffects"`
}

// Statistics computes aggregate counts.
func (g *ModuleGraph) Statistics() GraphStatistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := GraphStatistics{
		TotalModules:         len(g.modules),
		EntryPoints:          len(g.entryPoints),
		ExternalDependencies: len(g.externalDeps),
	}
	for _, deps := range g.dependencies {
		stats.TotalDependencies += len(deps)
	}
	for _, m := range g.modules {
		stats.TotalOriginalSize += m.OriginalSize
		if m.HasSideEffects {
			stats.ModulesWithSideEffects++
		}
	}
	return stats
}

// SymbolStatistics aggregates the per-module symbol tables.
func (g *ModuleGraph) SymbolStatistics() SymbolStatistics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var stats SymbolStatistics
	for _, m := range g.modules {
		stats.Accumulate(m.Symbols)
	}
	return stats
}

// InconsistencyError reports a violated graph invariant. These are
// assertion-class conditions: a graph produced by the core never trips them.
type InconsistencyError struct {
	Detail string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("module graph inconsistent: %s", e.Detail)
}

// CheckInvariants verifies edge symmetry, edge endpoint visibility, and entry
// point membership.
func (g *ModuleGraph) CheckInvariants() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for a, deps := range g.dependencies {
		if _, ok := g.modules[a]; !ok {
			return &InconsistencyError{Detail: fmt.Sprintf("edge source %q not in modules", a)}
		}
		for b := range deps {
			if _, ok := g.modules[b]; !ok {
				return &InconsistencyError{Detail: fmt.Sprintf("edge target %q not in modules", b)}
			}
			if _, ok := g.dependents[b][a]; !ok {
				return &InconsistencyError{Detail: fmt.Sprintf("missing reverse edge %q -> %q", b, a)}
			}
		}
	}
	for b, deps := range g.dependents {
		for a := range deps {
			if _, ok := g.dependencies[a][b]; !ok {
				return &InconsistencyError{Detail: fmt.Sprintf("missing forward edge %q -> %q", a, b)}
			}
		}
	}
	for entry := range g.entryPoints {
		if _, ok := g.modules[entry]; !ok {
			return &InconsistencyError{Detail: fmt.Sprintf("entry point %q not in modules", entry)}
		}
	}
	return nil
}

func idSetToSlice(set map[ModuleID]struct{}) []ModuleID {
	out := make([]ModuleID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
