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

// Package builder orchestrates the build: cache lookup, graph walk,
// conversion, framework rules, engine invocation, output writes, and cache
// save.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"bennypowers.dev/fob/cache"
	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
	"bennypowers.dev/fob/graph"
	"bennypowers.dev/fob/internal/logging"
	"bennypowers.dev/fob/parse"
	"bennypowers.dev/fob/planner"
	"bennypowers.dev/fob/resolver"
	"bennypowers.dev/fob/rules"
	"bennypowers.dev/fob/walker"
)

// ErrTimeout marks a build that exceeded the configured total-build timeout.
var ErrTimeout = errors.New("build timed out")

// BuildResult is the structured outcome of one build.
type BuildResult struct {
	Outputs []cache.SerializedOutput `json:"outputs"`

	Graph       *graph.ModuleGraph `json:"-"`
	GraphJSON   string             `json:"graphJson,omitempty"`
	EntryPoints []graph.ModuleID   `json:"entryPoints"`

	Stats       graph.GraphStatistics  `json:"stats"`
	SymbolStats graph.SymbolStatistics `json:"symbolStats"`

	Cache cache.Metrics `json:"cache"`

	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Builder drives builds for one configuration.
type Builder struct {
	fsys fs.FileSystem
	cfg  *config.BuildConfig
	log  *logging.Logger

	// engine is the engine invocation seam; tests replace it.
	engine engineFunc
}

// New creates a builder. The configuration is validated on Build.
func New(fsys fs.FileSystem, cfg *config.BuildConfig) *Builder {
	return &Builder{
		fsys:   fsys,
		cfg:    cfg,
		log:    logging.GetLogger(),
		engine: esbuildEngine(cfg),
	}
}

// Build runs the full pipeline and returns the structured result.
//
// Configuration errors are fatal pre-build. Walker errors, engine errors and
// write failures are fatal. Parse failures and unresolved imports are
// tolerated per-module and surface as warnings. Cache failures never
// propagate.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	cfg := b.cfg
	if cfg.Cwd == "" {
		cwd, err := b.fsys.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving cwd: %w", err)
		}
		cfg.Cwd = cwd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Oversized virtual files fail before any walking proceeds.
	for id, source := range cfg.VirtualFiles {
		if len(source) > cfg.FileSizeLimit {
			return nil, &walker.FileTooLargeError{Path: id, Size: len(source), Max: cfg.FileSizeLimit}
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	plan := planner.New(cfg)

	// Env is read once at driver start.
	forceRebuild := cache.ShouldForceRebuild(cfg.Cache.ForceRebuild, os.Getenv)

	store := b.openStore()
	if store != nil {
		defer store.Close()
	}

	var key cache.Key
	keyComputed := false
	if store != nil {
		computed, err := cache.ComputeKey(b.fsys, cfg, engineVersion())
		if err != nil {
			b.log.Debug("cache key unavailable: %v", err)
		} else {
			key = computed
			keyComputed = true
		}
	}

	if store != nil && keyComputed && !forceRebuild {
		start := time.Now()
		cached, err := cache.TryLoad(store, key)
		switch {
		case err == nil:
			b.log.Debug("cache hit for key %s", key)
			return cachedToResult(cached, key, time.Since(start)), nil
		case errors.Is(err, cache.ErrMiss), errors.Is(err, cache.ErrIncompatible):
			// Clean miss; build.
		default:
			b.log.Warning("cache load failed, rebuilding: %v", err)
		}
	}

	result, err := b.runBuild(ctx, plan)
	if err != nil {
		return nil, mapContextError(ctx, err)
	}

	if store != nil && keyComputed {
		result.Cache.Key = key.String()
		record := resultToCached(result)
		if err := cache.TrySave(store, key, record); err != nil {
			b.log.Warning("cache save failed: %v", err)
		}
	}

	return result, nil
}

// runBuild executes the uncached pipeline: walk, convert, analyze, bundle,
// write.
func (b *Builder) runBuild(ctx context.Context, plan *planner.Plan) (*BuildResult, error) {
	cfg := b.cfg

	res := resolver.New(b.fsys, cfg)
	w := walker.New(b.fsys, cfg, res)

	walked, err := w.Walk(ctx, plan.Entries)
	if err != nil {
		return nil, err
	}

	g, err := graph.FromCollection(b.fsys, walked.State, parse.AnalyzeSymbols)
	if err != nil {
		return nil, err
	}

	if err := rules.NewRegistry().ApplyAll(g); err != nil {
		return nil, err
	}
	g.ComputeExportUsageCounts()

	outputs, engineWarnings, err := b.runEngine(ctx, plan)
	if err != nil {
		return nil, err
	}

	if err := writeOutputs(b.fsys, cfg.OutDir, outputs); err != nil {
		return nil, err
	}

	entryIDs := make([]graph.ModuleID, 0, len(walked.State.EntryPaths))
	for _, path := range walked.State.EntryPaths {
		id, err := graph.NewModuleID(b.fsys, path)
		if err != nil {
			return nil, err
		}
		entryIDs = append(entryIDs, id)
	}

	graphJSON, err := g.ToJSON()
	if err != nil {
		return nil, err
	}

	return &BuildResult{
		Outputs:     outputs,
		Graph:       g,
		GraphJSON:   string(graphJSON),
		EntryPoints: entryIDs,
		Stats:       g.Statistics(),
		SymbolStats: g.SymbolStatistics(),
		Warnings:    append(walked.Warnings, engineWarnings...),
	}, nil
}

// runEngine dispatches the engine per the plan's mode.
func (b *Builder) runEngine(ctx context.Context, plan *planner.Plan) ([]cache.SerializedOutput, []string, error) {
	entries := make([]string, len(plan.Entries))
	for i, entry := range plan.Entries {
		entries[i] = resolveEntryForEngine(b.cfg, entry)
	}

	if !plan.IsIsolated() {
		outputs, warnings, err := b.engine(entries, true)
		if err != nil {
			return nil, nil, err
		}
		return outputs, warnings, nil
	}

	return b.runIsolated(ctx, plan, entries)
}

// runIsolated builds each entry independently, bounded by the parallel-build
// cap. Admission order matches entry order; outputs are collected and
// emitted in entry order regardless of completion order; failures are
// aggregated, never short-circuited.
func (b *Builder) runIsolated(ctx context.Context, plan *planner.Plan, entries []string) ([]cache.SerializedOutput, []string, error) {
	tracker := planner.NewTracker(plan)

	perEntryOutputs := make([][]cache.SerializedOutput, len(entries))
	perEntryWarnings := make([][]string, len(entries))

	sem := semaphore.NewWeighted(int64(plan.MaxParallelBuilds))
	var wg sync.WaitGroup

	for i, build := range tracker.Builds() {
		if err := sem.Acquire(ctx, 1); err != nil {
			_ = build.Dispatch()
			_ = build.Complete(err)
			continue
		}
		if err := build.Dispatch(); err != nil {
			sem.Release(1)
			return nil, nil, err
		}

		wg.Add(1)
		go func(index int, record *planner.EntryBuild) {
			defer wg.Done()
			defer sem.Release(1)

			outputs, warnings, err := b.engine([]string{entries[index]}, false)
			perEntryOutputs[index] = outputs
			perEntryWarnings[index] = warnings
			_ = record.Complete(err)
		}(i, build)
	}

	wg.Wait()

	if errs := tracker.Errors(); len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	var outputs []cache.SerializedOutput
	var warnings []string
	for i := range entries {
		outputs = append(outputs, perEntryOutputs[i]...)
		warnings = append(warnings, perEntryWarnings[i]...)
	}
	return outputs, warnings, nil
}

// openStore opens the cache store; failures disable caching for this build.
func (b *Builder) openStore() *cache.Store {
	dir := b.cfg.Cache.Dir
	if dir == "" {
		dir = config.DefaultCacheDir()
	}
	store, err := cache.Open(dir)
	if err != nil {
		b.log.Warning("cache unavailable: %v", err)
		return nil
	}
	return store
}

// mapContextError translates context expiry into the build error taxonomy.
func mapContextError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// cachedToResult reconstructs a build result from a cache record.
func cachedToResult(cached *cache.CachedBuild, key cache.Key, loadDuration time.Duration) *BuildResult {
	result := &BuildResult{
		Outputs:   cached.Outputs,
		GraphJSON: cached.GraphJSON,
		Warnings:  cached.Warnings,
		Errors:    cached.Errors,
		Cache: cache.Metrics{
			Hit:          true,
			Key:          key.String(),
			LoadDuration: loadDuration,
		},
	}
	for _, entry := range cached.EntryPoints {
		result.EntryPoints = append(result.EntryPoints, graph.ModuleID(entry))
	}
	return result
}

// resultToCached serializes a build result for storage.
func resultToCached(result *BuildResult) *cache.CachedBuild {
	record := &cache.CachedBuild{
		Metadata:  cache.NewMetadata(),
		Outputs:   result.Outputs,
		GraphJSON: result.GraphJSON,
		Warnings:  result.Warnings,
		Errors:    result.Errors,
		Cache:     result.Cache,
	}
	for _, id := range result.EntryPoints {
		record.EntryPoints = append(record.EntryPoints, id.String())
	}
	return record
}
