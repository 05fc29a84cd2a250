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

// Package walker traverses the import graph breadth-first from the entry
// points, producing a collection state for graph conversion.
//
// The walker dispatches parse work concurrently up to a configurable cap,
// but all mutation of the collection state happens on the coordinating
// goroutine, so edge insertion order is deterministic: entry points in input
// order, then children in the source order of their imports.
package walker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
	"bennypowers.dev/fob/graph"
	"bennypowers.dev/fob/resolver"
)

// Walker walks the module import graph from entry points.
type Walker struct {
	fsys     fs.FileSystem
	cfg      *config.BuildConfig
	resolver *resolver.Resolver
	parser   *moduleParser
	cwd      string
}

// New creates a walker for the given configuration. The cwd must already be
// resolved by the caller.
func New(fsys fs.FileSystem, cfg *config.BuildConfig, res *resolver.Resolver) *Walker {
	return &Walker{
		fsys:     fsys,
		cfg:      cfg,
		resolver: res,
		parser: &moduleParser{
			fsys:          fsys,
			fileSizeLimit: cfg.FileSizeLimit,
			maxScriptTags: cfg.MaxScriptTags,
			virtualFiles:  cfg.VirtualFiles,
		},
		cwd: cfg.Cwd,
	}
}

// workItem is one queued module with its BFS depth.
type workItem struct {
	path    string
	depth   int
	isEntry bool
}

// Result carries the collection state plus the non-fatal diagnostics
// gathered during the walk.
type Result struct {
	State    *graph.CollectionState
	Warnings []string
}

// Walk traverses the import graph from the given entries.
//
// Fatal conditions (depth or module limits, path traversal, oversized or
// unreadable files, cancellation) abort the walk; partial results are
// discarded. Parse failures and unresolved imports are recovered and
// reported as warnings.
func (w *Walker) Walk(ctx context.Context, entries []string) (*Result, error) {
	state := graph.NewCollectionState()
	state.EntrySpecifiers = append([]string(nil), entries...)

	visited := make(map[string]bool)
	var queue []workItem

	for _, entry := range entries {
		path, err := w.entryPath(entry)
		if err != nil {
			return nil, err
		}
		if visited[path] {
			continue
		}
		visited[path] = true
		state.EntryPaths = append(state.EntryPaths, path)
		queue = append(queue, workItem{path: path, depth: 0, isEntry: true})
	}

	var warnings []string

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wave := queue
		queue = nil

		for _, item := range wave {
			if item.depth > w.cfg.MaxDepth {
				return nil, &MaxDepthError{Path: item.path, Depth: item.depth, Max: w.cfg.MaxDepth}
			}
		}

		parsed, err := w.parseWave(ctx, wave)
		if err != nil {
			return nil, err
		}

		// Collection-state mutation happens here, on the coordinator, one
		// wave item at a time in queue order.
		for i, item := range wave {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			mod := parsed[i]
			if mod.ParseFailed {
				warnings = append(warnings, fmt.Sprintf("parse failed for %s: assuming side effects", item.path))
			}

			collected := &graph.CollectedModule{
				Path:           item.path,
				Code:           mod.Code,
				Exports:        mod.Exports,
				IsEntry:        item.isEntry,
				HasSideEffects: mod.HasSideEffects,
			}

			// Virtual modules resolve their relative imports against the
			// working directory.
			from := item.path
			if strings.HasPrefix(item.path, graph.VirtualPrefix) || w.isVirtual(item.path) {
				from = filepath.Join(w.cwd, "virtual")
			}

			for _, imp := range mod.Imports {
				if imp.Kind == graph.CollectedTypeOnly && !w.cfg.IncludeTypeImports {
					continue
				}

				follow := imp.Kind != graph.CollectedDynamic || w.cfg.FollowDynamicImports
				if follow {
					result := w.resolver.Resolve(imp.Source, from)
					switch result.Kind {
					case resolver.KindLocal:
						safe, err := normalizeAndValidate(w.fsys, result.Path, w.cwd)
						if err != nil {
							return nil, err
						}
						resolved := safe
						imp.ResolvedPath = &resolved
						if !visited[safe] {
							if len(visited) >= w.cfg.MaxModules {
								return nil, &MaxModulesError{Count: len(visited) + 1, Max: w.cfg.MaxModules}
							}
							visited[safe] = true
							queue = append(queue, workItem{path: safe, depth: item.depth + 1})
						}
					case resolver.KindUnresolved:
						warnings = append(warnings, fmt.Sprintf("unresolved import %q in %s", imp.Source, item.path))
					}
					// External specifiers are never enqueued; conversion
					// aggregates them from the unresolved record.
				}

				collected.Imports = append(collected.Imports, imp)
			}

			state.Add(collected)
		}
	}

	return &Result{State: state, Warnings: warnings}, nil
}

// parseWave dispatches the wave's parse work concurrently, bounded by the
// configured parallelism, and returns results in wave order.
func (w *Walker) parseWave(ctx context.Context, wave []workItem) ([]*parsedModule, error) {
	parsed := make([]*parsedModule, len(wave))

	g, ctx := errgroup.WithContext(ctx)
	limit := w.cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, item := range wave {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mod, err := w.parser.processModule(item.path)
			if err != nil {
				return err
			}
			parsed[i] = mod
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// entryPath resolves one configured entry into a walkable module path,
// applying the path-safety check for filesystem entries.
func (w *Walker) entryPath(entry string) (string, error) {
	if strings.HasPrefix(entry, graph.VirtualPrefix) || w.isVirtual(entry) {
		return entry, nil
	}
	abs := entry
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(w.cwd, abs)
	}
	return normalizeAndValidate(w.fsys, abs, w.cwd)
}

func (w *Walker) isVirtual(path string) bool {
	_, ok := w.cfg.VirtualFiles[path]
	return ok
}
