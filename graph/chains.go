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

import "sort"

// DependencyChain is one path from an entry point to a target module over the
// forward edges.
type DependencyChain struct {
	Target ModuleID `json:"target"`

	// IDs is the module sequence, entry first. A chain that revisits a node
	// is truncated at the second visit and flagged.
	IDs []ModuleID `json:"ids"`

	HasCycle bool `json:"hasCycle"`
}

// Depth is the number of edges in the chain.
func (c DependencyChain) Depth() int {
	if len(c.IDs) == 0 {
		return 0
	}
	return len(c.IDs) - 1
}

// Entry returns the chain's entry point.
func (c DependencyChain) Entry() ModuleID {
	if len(c.IDs) == 0 {
		return ""
	}
	return c.IDs[0]
}

// DependencyChainsTo enumerates all simple paths from any entry point to
// target. A path that returns to target is emitted truncated at that second
// visit with HasCycle set; a path that would revisit any other node is
// abandoned and not emitted. Both keep enumeration finite on cyclic graphs.
//
// Chains are returned in deterministic order: by entry id, then by the
// lexicographic sequence of intermediate ids.
func (g *ModuleGraph) DependencyChainsTo(target ModuleID) []DependencyChain {
	entries := g.EntryPoints()

	var chains []DependencyChain
	for _, entry := range entries {
		path := []ModuleID{entry}
		onPath := map[ModuleID]bool{entry: true}
		g.walkChains(entry, target, path, onPath, &chains)
	}

	sort.Slice(chains, func(i, j int) bool {
		return lessIDSequence(chains[i].IDs, chains[j].IDs)
	})
	return chains
}

func (g *ModuleGraph) walkChains(current, target ModuleID, path []ModuleID, onPath map[ModuleID]bool, chains *[]DependencyChain) {
	if current == target && len(path) > 0 {
		ids := make([]ModuleID, len(path))
		copy(ids, path)
		*chains = append(*chains, DependencyChain{Target: target, IDs: ids})
		// Continue past a self-match only through fresh children; a direct
		// hit is recorded and longer cycles through the target are caught
		// below as truncated chains.
	}

	for _, next := range g.Dependencies(current) {
		if onPath[next] {
			if next == target {
				ids := make([]ModuleID, len(path)+1)
				copy(ids, path)
				ids[len(path)] = next
				*chains = append(*chains, DependencyChain{Target: target, IDs: ids, HasCycle: true})
			}
			continue
		}
		onPath[next] = true
		g.walkChains(next, target, append(path, next), onPath, chains)
		delete(onPath, next)
	}
}

// FindCircularDependencies returns, for every module, the chains to it that
// contain a cycle. The union over all modules covers every cycle reachable
// from the entry points.
func (g *ModuleGraph) FindCircularDependencies() []DependencyChain {
	var circular []DependencyChain
	for _, m := range g.Modules() {
		for _, chain := range g.DependencyChainsTo(m.ID) {
			if chain.HasCycle {
				circular = append(circular, chain)
			}
		}
	}
	sort.Slice(circular, func(i, j int) bool {
		return lessIDSequence(circular[i].IDs, circular[j].IDs)
	})
	return circular
}

// ImportDepth returns the minimum distance from any entry point to the
// module, or nil when the module is unreachable.
func (g *ModuleGraph) ImportDepth(id ModuleID) *int {
	depths := g.depthsFromEntries()
	if d, ok := depths[id]; ok {
		return &d
	}
	return nil
}

// ModulesByDepth groups reachable modules into layers by their minimum
// distance from any entry point. Layer slices are sorted by id.
func (g *ModuleGraph) ModulesByDepth() map[int][]ModuleID {
	depths := g.depthsFromEntries()
	layers := make(map[int][]ModuleID)
	for id, depth := range depths {
		layers[depth] = append(layers[depth], id)
	}
	for _, layer := range layers {
		sort.Slice(layer, func(i, j int) bool { return layer[i] < layer[j] })
	}
	return layers
}

// depthsFromEntries runs one BFS over the forward edges from every entry
// point at distance zero.
func (g *ModuleGraph) depthsFromEntries() map[ModuleID]int {
	depths := make(map[ModuleID]int)
	queue := g.EntryPoints()
	for _, entry := range queue {
		depths[entry] = 0
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.Dependencies(current) {
			if _, seen := depths[next]; seen {
				continue
			}
			depths[next] = depths[current] + 1
			queue = append(queue, next)
		}
	}
	return depths
}

// UnreachableModules returns modules with no dependents, no side effects,
// that are not entry points: candidates for removal. Sorted by id.
func (g *ModuleGraph) UnreachableModules() []ModuleID {
	var unreachable []ModuleID
	for _, m := range g.Modules() {
		if m.IsEntry || m.HasSideEffects {
			continue
		}
		if len(g.Dependents(m.ID)) == 0 {
			unreachable = append(unreachable, m.ID)
		}
	}
	return unreachable
}

func lessIDSequence(a, b []ModuleID) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
