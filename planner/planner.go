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

// Package planner turns configuration into a bundle plan: one shared engine
// invocation with code splitting, or per-entry isolated builds.
package planner

import (
	"fmt"

	"bennypowers.dev/fob/config"
)

// Plan describes how entries are grouped into engine invocations.
type Plan struct {
	// Entries in caller-supplied order. Isolated outputs are emitted in this
	// order regardless of completion order.
	Entries []string

	Mode config.EntryMode

	// CodeSplitting applies only in shared mode.
	CodeSplitting config.CodeSplitting

	// MaxParallelBuilds bounds concurrent isolated builds.
	MaxParallelBuilds int
}

// New constructs the plan for a validated configuration.
func New(cfg *config.BuildConfig) *Plan {
	return &Plan{
		Entries:           append([]string(nil), cfg.Entries...),
		Mode:              cfg.EntryMode,
		CodeSplitting:     cfg.CodeSplitting,
		MaxParallelBuilds: cfg.MaxParallelBuilds,
	}
}

// IsIsolated reports whether each entry builds independently.
func (p *Plan) IsIsolated() bool {
	return p.Mode == config.EntryModeIsolated
}

// BuildState tracks one isolated build through its lifecycle. Transitions
// are monotonic: Planned -> Dispatched -> Completed.
type BuildState int

const (
	StatePlanned BuildState = iota
	StateDispatched
	StateCompleted
)

func (s BuildState) String() string {
	switch s {
	case StatePlanned:
		return "planned"
	case StateDispatched:
		return "dispatched"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// EntryBuild is the bookkeeping record for one isolated build.
type EntryBuild struct {
	// Index is the entry's position in the caller-supplied order.
	Index int
	Entry string

	state BuildState
	Err   error
}

// Tracker orders isolated builds and reduces their terminal states into the
// caller-supplied entry order.
type Tracker struct {
	builds []*EntryBuild
}

// NewTracker creates bookkeeping for the plan's entries, all Planned.
func NewTracker(p *Plan) *Tracker {
	builds := make([]*EntryBuild, len(p.Entries))
	for i, entry := range p.Entries {
		builds[i] = &EntryBuild{Index: i, Entry: entry}
	}
	return &Tracker{builds: builds}
}

// Builds returns the build records in entry order.
func (t *Tracker) Builds() []*EntryBuild {
	return t.builds
}

// Dispatch transitions a build from Planned to Dispatched.
func (b *EntryBuild) Dispatch() error {
	if b.state != StatePlanned {
		return fmt.Errorf("build %q: cannot dispatch from %s", b.Entry, b.state)
	}
	b.state = StateDispatched
	return nil
}

// Complete transitions a build to Completed with its outcome.
func (b *EntryBuild) Complete(err error) error {
	if b.state != StateDispatched {
		return fmt.Errorf("build %q: cannot complete from %s", b.Entry, b.state)
	}
	b.state = StateCompleted
	b.Err = err
	return nil
}

// State returns the build's current lifecycle state.
func (b *EntryBuild) State() BuildState {
	return b.state
}

// Errors returns the failures across completed builds, in entry order. The
// reduction never short-circuits: every entry's outcome is represented.
func (t *Tracker) Errors() []error {
	var errs []error
	for _, b := range t.builds {
		if b.Err != nil {
			errs = append(errs, fmt.Errorf("entry %q: %w", b.Entry, b.Err))
		}
	}
	return errs
}
