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
	"strings"
)

// ToDOT exports the graph in Graphviz dot format. Entry points are drawn as
// boxes, external dependencies as dashed ellipses.
func (g *ModuleGraph) ToDOT() string {
	snap := g.snapshot()

	var b strings.Builder
	b.WriteString("digraph modules {\n")
	b.WriteString("  rankdir=LR;\n")

	entries := make(map[ModuleID]bool, len(snap.EntryPoints))
	for _, entry := range snap.EntryPoints {
		entries[entry] = true
	}

	for _, m := range snap.Modules {
		shape := "ellipse"
		if entries[m.ID] {
			shape = "box"
		}
		fmt.Fprintf(&b, "  %q [shape=%s];\n", m.ID, shape)
	}

	for _, m := range snap.Modules {
		for _, target := range snap.Dependencies[m.ID] {
			fmt.Fprintf(&b, "  %q -> %q;\n", m.ID, target)
		}
	}

	for _, dep := range snap.ExternalDeps {
		fmt.Fprintf(&b, "  %q [shape=ellipse, style=dashed];\n", dep.Specifier)
		for _, importer := range dep.Importers {
			fmt.Fprintf(&b, "  %q -> %q [style=dashed];\n", importer, dep.Specifier)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
