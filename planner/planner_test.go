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

package planner_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/planner"
)

func isolatedPlan(entries ...string) *planner.Plan {
	cfg := config.Default()
	cfg.Entries = entries
	cfg.EntryMode = config.EntryModeIsolated
	cfg.MaxParallelBuilds = 4
	return planner.New(cfg)
}

func TestNewPreservesEntryOrder(t *testing.T) {
	plan := isolatedPlan("/b.ts", "/a.ts", "/c.ts")
	assert.Equal(t, []string{"/b.ts", "/a.ts", "/c.ts"}, plan.Entries)
	assert.True(t, plan.IsIsolated())
}

func TestNewCopiesEntries(t *testing.T) {
	cfg := config.Default()
	cfg.Entries = []string{"/a.ts"}
	plan := planner.New(cfg)

	cfg.Entries[0] = "/mutated.ts"
	assert.Equal(t, "/a.ts", plan.Entries[0])
}

func TestTrackerLifecycle(t *testing.T) {
	plan := isolatedPlan("/a.ts", "/b.ts")
	tracker := planner.NewTracker(plan)
	builds := tracker.Builds()
	require.Len(t, builds, 2)

	for _, b := range builds {
		assert.Equal(t, planner.StatePlanned, b.State())
	}

	require.NoError(t, builds[0].Dispatch())
	assert.Equal(t, planner.StateDispatched, builds[0].State())
	require.NoError(t, builds[0].Complete(nil))
	assert.Equal(t, planner.StateCompleted, builds[0].State())
}

func TestTrackerTransitionsAreMonotonic(t *testing.T) {
	plan := isolatedPlan("/a.ts")
	build := planner.NewTracker(plan).Builds()[0]

	assert.Error(t, build.Complete(nil), "cannot complete before dispatch")
	require.NoError(t, build.Dispatch())
	assert.Error(t, build.Dispatch(), "cannot dispatch twice")
	require.NoError(t, build.Complete(nil))
	assert.Error(t, build.Complete(nil), "cannot complete twice")
}

func TestTrackerErrorsAggregateInEntryOrder(t *testing.T) {
	plan := isolatedPlan("/a.ts", "/b.ts", "/c.ts")
	tracker := planner.NewTracker(plan)
	builds := tracker.Builds()

	// Complete out of order; the reduction still reports entry order.
	for _, b := range builds {
		require.NoError(t, b.Dispatch())
	}
	require.NoError(t, builds[2].Complete(errors.New("boom c")))
	require.NoError(t, builds[0].Complete(errors.New("boom a")))
	require.NoError(t, builds[1].Complete(nil))

	errs := tracker.Errors()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "/a.ts")
	assert.Contains(t, errs[1].Error(), "/c.ts")
}

func TestDefaultCodeSplittingThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Entries = []string{"/a.ts"}
	plan := planner.New(cfg)

	assert.Equal(t, config.DefaultSplitMinSizeBytes, plan.CodeSplitting.MinSizeBytes)
	assert.Equal(t, config.DefaultSplitMinImports, plan.CodeSplitting.MinImports)
	assert.False(t, plan.IsIsolated())
}
