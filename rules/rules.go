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

// Package rules hosts framework-rule passes: graph transformations that mark
// exports consumed by framework convention rather than by static imports.
package rules

import (
	"strings"

	"bennypowers.dev/fob/graph"
)

// Rule is one framework-rule pass over the module graph.
//
// Passes read the graph and request per-module mutations by cloning a
// module, mutating the clone, and reinserting it through AddModule.
type Rule interface {
	Apply(g *graph.ModuleGraph) error
	Name() string
	Description() string
}

// Registry is an ordered list of passes.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry with the built-in passes.
func NewRegistry() *Registry {
	return &Registry{rules: []Rule{
		&FrameworkExports{},
	}}
}

// Register appends a pass.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the passes in application order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// ApplyAll runs every pass in order, stopping at the first failure.
func (r *Registry) ApplyAll(g *graph.ModuleGraph) error {
	for _, rule := range r.rules {
		if err := rule.Apply(g); err != nil {
			return err
		}
	}
	return nil
}

// frameworkDataFunctions are exports consumed by framework data-fetching
// machinery without any static import.
var frameworkDataFunctions = map[string]bool{
	"getStaticProps":      true,
	"getStaticPaths":      true,
	"getServerSideProps":  true,
	"generateStaticParams": true,
	"generateMetadata":    true,
	"loader":              true,
	"action":              true,
}

// FrameworkExports marks exports that frameworks consume by convention:
// React-style hooks (use* functions) and data-fetching functions, plus
// default exports of page-style modules.
type FrameworkExports struct{}

// Name implements Rule.
func (r *FrameworkExports) Name() string {
	return "framework-exports"
}

// Description implements Rule.
func (r *FrameworkExports) Description() string {
	return "marks hook-style and framework data-fetching exports as used by convention"
}

// Apply implements Rule.
func (r *FrameworkExports) Apply(g *graph.ModuleGraph) error {
	for _, m := range g.Modules() {
		var touched bool
		clone := m.Clone()
		for _, e := range clone.Exports {
			if e.IsFrameworkUsed {
				continue
			}
			if r.matches(clone, e) {
				e.MarkFrameworkUsed()
				touched = true
			}
		}
		if touched {
			g.AddModule(clone)
		}
	}
	return nil
}

func (r *FrameworkExports) matches(m *graph.Module, e *graph.Export) bool {
	if frameworkDataFunctions[e.Name] {
		return true
	}
	if isHookName(e.Name) {
		return true
	}
	if e.Kind == graph.ExportDefault && isPageModule(m.Path) {
		return true
	}
	return false
}

// isHookName matches React hook convention: "use" followed by an uppercase
// letter.
func isHookName(name string) bool {
	if !strings.HasPrefix(name, "use") || len(name) < 4 {
		return false
	}
	c := name[3]
	return c >= 'A' && c <= 'Z'
}

// isPageModule matches file-router conventions where the default export is
// the page component.
func isPageModule(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	return strings.Contains(normalized, "/pages/") ||
		strings.Contains(normalized, "/routes/") ||
		strings.Contains(normalized, "/app/")
}
