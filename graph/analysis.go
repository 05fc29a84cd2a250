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

// UnusedExport identifies one export that nothing in the graph consumes.
type UnusedExport struct {
	Module ModuleID   `json:"module"`
	Name   string     `json:"name"`
	Kind   ExportKind `json:"kind"`
	Span   SourceSpan `json:"span"`
}

// UnusedExports returns every export that is not used, not framework-used,
// and either has a confirmed-zero usage count or is not a re-export.
//
// Framework-rule passes that mark exports used by convention must run before
// this query. Results are sorted by (module id, export name).
func (g *ModuleGraph) UnusedExports() []UnusedExport {
	var unused []UnusedExport
	for _, m := range g.Modules() {
		for _, e := range m.Exports {
			if e.IsUsed || e.IsFrameworkUsed {
				continue
			}
			confirmedZero := e.UsageCount != nil && *e.UsageCount == 0
			if confirmedZero || !e.IsReExport() {
				unused = append(unused, UnusedExport{
					Module: m.ID,
					Name:   e.Name,
					Kind:   e.Kind,
					Span:   e.Span,
				})
			}
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		if unused[i].Module != unused[j].Module {
			return unused[i].Module < unused[j].Module
		}
		return unused[i].Name < unused[j].Name
	})
	return unused
}

// ComputeExportUsageCounts populates every export's usage count from the
// import specifiers across the graph.
//
// For every import binding a name N from module M, M's export N is
// incremented. Namespace imports count against every named export of the
// target. Star re-exports propagate: a usage resolved through a re-exporting
// module counts toward the originating module's export. Only statically
// resolved imports participate; dynamic imports with non-literal specifiers
// never reach the graph.
func (g *ModuleGraph) ComputeExportUsageCounts() {
	modules := g.Modules()

	// Every export starts at confirmed zero so exports nothing binds read as
	// unused rather than uncomputed.
	for _, m := range modules {
		for _, e := range m.Exports {
			e.SetUsageCount(0)
		}
	}

	for _, m := range modules {
		for _, imp := range m.Imports {
			if imp.ResolvedTo == nil || !imp.ContributesToRuntime() {
				continue
			}
			target, ok := g.Module(*imp.ResolvedTo)
			if !ok {
				continue
			}
			for _, spec := range imp.Specifiers {
				switch spec.Kind {
				case SpecifierDefault:
					g.countExportUsage(target, "default", map[ModuleID]bool{})
				case SpecifierNamespace:
					for _, e := range target.NamedExports() {
						e.IncrementUsageCount()
						e.MarkUsed()
					}
					for _, star := range target.StarReExports() {
						star.MarkUsed()
					}
				default:
					g.countExportUsage(target, spec.Name, map[ModuleID]bool{})
				}
			}
		}
	}
}

// countExportUsage increments name on m, following star re-exports to the
// originating module when m has no matching export of its own.
func (g *ModuleGraph) countExportUsage(m *Module, name string, visited map[ModuleID]bool) {
	if visited[m.ID] {
		return
	}
	visited[m.ID] = true

	if e, ok := m.Export(name); ok {
		e.IncrementUsageCount()
		e.MarkUsed()
		if e.Kind == ExportReExport && e.ReExportedFrom != nil {
			if origin, ok := g.resolveSpecifierTarget(m, *e.ReExportedFrom); ok {
				g.countExportUsage(origin, name, visited)
			}
		}
		return
	}

	for _, star := range m.StarReExports() {
		if star.ReExportedFrom == nil {
			continue
		}
		origin, ok := g.resolveSpecifierTarget(m, *star.ReExportedFrom)
		if !ok {
			continue
		}
		if _, exists := origin.Export(name); !exists && len(origin.StarReExports()) == 0 {
			continue
		}
		star.MarkUsed()
		g.countExportUsage(origin, name, visited)
	}
}

// resolveSpecifierTarget maps a re-export source specifier to the module it
// resolved to, through m's own import records.
func (g *ModuleGraph) resolveSpecifierTarget(m *Module, specifier string) (*Module, bool) {
	for _, imp := range m.Imports {
		if imp.Source == specifier && imp.ResolvedTo != nil {
			return g.Module(*imp.ResolvedTo)
		}
	}
	return nil, false
}
