// Package runner coordinates several independent workflow runs executing
// concurrently against one shared dispatcher. Each run owns its own engine,
// payload, and call stack; only the dispatcher's credential rotation is
// shared, guarded by its own mutex.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ZapoVerde/robosmith/engine"
	"github.com/ZapoVerde/robosmith/logger"
	"github.com/ZapoVerde/robosmith/manifest"
)

// Run describes one workflow run to execute.
type Run struct {
	// ID identifies the run. Generated when empty.
	ID string
	// StartNode is the node whose entry block the run begins at.
	StartNode string
	// WorkingDir is the isolated working directory for this run.
	WorkingDir string
}

// Result is the outcome of one run.
type Result struct {
	ID    string
	State *engine.RunState
	Err   error
}

// Group executes a set of runs concurrently over one manifest and one
// shared dispatcher.
type Group struct {
	manifest   *manifest.Manifest
	dispatcher engine.Dispatcher
	engineOpts []engine.Option

	mu   sync.Mutex
	runs []Run
}

// NewGroup creates a run group. The engine options are applied to every
// engine the group creates.
func NewGroup(m *manifest.Manifest, dispatcher engine.Dispatcher, engineOpts ...engine.Option) *Group {
	return &Group{
		manifest:   m,
		dispatcher: dispatcher,
		engineOpts: engineOpts,
	}
}

// Add queues a run for execution.
func (g *Group) Add(run Run) string {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	g.mu.Lock()
	g.runs = append(g.runs, run)
	g.mu.Unlock()
	return run.ID
}

// Execute runs every queued run to completion and returns their results in
// queue order. The returned error is the first run failure, if any; all
// runs execute regardless — a failing run does not cancel its siblings,
// since each represents independent work.
func (g *Group) Execute(ctx context.Context) ([]Result, error) {
	g.mu.Lock()
	runs := append([]Run(nil), g.runs...)
	g.mu.Unlock()

	results := make([]Result, len(runs))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, run := range runs {
		i, run := i, run
		eg.Go(func() error {
			runCtx := logger.WithRunID(egCtx, run.ID)
			eng := engine.New(g.manifest, g.dispatcher, g.engineOpts...)

			err := eng.Run(runCtx, run.StartNode, run.WorkingDir)
			results[i] = Result{ID: run.ID, State: eng.State(), Err: err}
			if err != nil {
				// Report the failure without cancelling sibling runs.
				logger.ErrorContext(runCtx, "run failed", "error", err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}

	for _, r := range results {
		if r.Err != nil {
			return results, fmt.Errorf("run %s: %w", r.ID, r.Err)
		}
	}
	return results, nil
}
