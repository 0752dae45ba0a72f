// Package engine executes a manifest-driven workflow: it walks the graph
// block by block, assembling each block's context, dispatching its work,
// and following the transition the returned signal selects.
//
// The run loop is single-threaded and cooperative. Its only suspension
// point is the dispatcher call; halting is checked once per iteration, so
// an in-flight dispatch completes before the loop stops. One engine owns
// one run; independent runs use independent engines, which may share a
// dispatcher.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZapoVerde/robosmith/logger"
	"github.com/ZapoVerde/robosmith/manifest"
	"github.com/ZapoVerde/robosmith/memory"
	"github.com/ZapoVerde/robosmith/payload"
	"github.com/ZapoVerde/robosmith/worker"
)

// Dispatcher executes one logical unit of work. The dispatch package
// provides the credential-pool implementation.
type Dispatcher interface {
	Execute(ctx context.Context, req *worker.WorkRequest) (*worker.WorkResult, error)
}

// Recorder receives engine observability events. The metrics/prometheus
// package provides an implementation.
type Recorder interface {
	// StepCompleted records one executed block with its outcome status
	// ("success" or "error") and duration.
	StepCompleted(node, workerID, status string, d time.Duration)
	// RunStarted and RunCompleted bracket a run; status is "completed",
	// "halted", or "error".
	RunStarted()
	RunCompleted(status string, d time.Duration)
}

// TimeFunc returns the current time. Override for deterministic tests.
type TimeFunc func() time.Time

// Engine is the stateful orchestrator of a single workflow run.
type Engine struct {
	manifest   *manifest.Manifest
	dispatcher Dispatcher
	log        *slog.Logger
	now        TimeFunc
	metrics    Recorder
	listeners  []SnapshotListener

	mu             sync.Mutex
	state          RunState
	statuses       map[string]BlockStatus
	lastTransition *TransitionRecord
	halted         atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSnapshotListener registers a listener for per-step state snapshots.
func WithSnapshotListener(listener SnapshotListener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, listener)
	}
}

// WithLogger overrides the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithTimeFunc sets a custom time function for deterministic tests.
func WithTimeFunc(fn TimeFunc) Option {
	return func(e *Engine) {
		e.now = fn
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec Recorder) Option {
	return func(e *Engine) {
		e.metrics = rec
	}
}

// New creates an engine for one run over the given manifest.
func New(m *manifest.Manifest, dispatcher Dispatcher, opts ...Option) *Engine {
	e := &Engine{
		manifest:   m,
		dispatcher: dispatcher,
		log:        logger.DefaultLogger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromState creates an engine seeded with previously serialized run
// state, for resuming a paused run via Resume.
func NewFromState(m *manifest.Manifest, dispatcher Dispatcher, state *RunState, opts ...Option) *Engine {
	e := New(m, dispatcher, opts...)
	e.state = *state.Clone()
	return e
}

// Run starts a fresh run at the given node's entry block and drives it to
// termination. It returns nil on graceful termination or halt; structural
// errors, dispatch exhaustion, and non-retryable worker failures propagate
// unchanged. The last published snapshot before an error is the caller's
// only record of progress.
func (e *Engine) Run(ctx context.Context, startNodeID, workingDir string) error {
	entry, err := e.manifest.EntryBlockID(startNodeID)
	if err != nil {
		return &StructuralError{BlockID: startNodeID, Err: err}
	}

	e.mu.Lock()
	e.state = RunState{
		CurrentBlockID: entry,
		Payload:        &payload.Payload{},
	}
	e.mu.Unlock()

	return e.loop(ctx, workingDir)
}

// Resume continues a run from state seeded via NewFromState.
func (e *Engine) Resume(ctx context.Context, workingDir string) error {
	e.mu.Lock()
	seeded := e.state.CurrentBlockID != "" && e.state.Payload != nil
	e.mu.Unlock()
	if !seeded {
		return ErrNoState
	}
	return e.loop(ctx, workingDir)
}

// Halt requests a cooperative stop. The flag is checked at the top of the
// loop only; an in-flight dispatch completes before the run stops.
func (e *Engine) Halt() {
	e.halted.Store(true)
}

// State returns a deep copy of the serializable run state for persistence.
func (e *Engine) State() *RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// CurrentBlockID returns the block the run is positioned at, or "" once the
// run has terminated.
func (e *Engine) CurrentBlockID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.CurrentBlockID
}

func (e *Engine) loop(ctx context.Context, workingDir string) error {
	started := e.now()
	if e.metrics != nil {
		e.metrics.RunStarted()
	}

	e.initStatuses()
	e.setStatus(e.state.CurrentBlockID, StatusActive)
	e.publish() // entering snapshot

	var runErr error
	for e.state.CurrentBlockID != "" && !e.halted.Load() {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := e.step(ctx, workingDir); err != nil {
			runErr = err
			break
		}
	}

	if e.metrics != nil {
		e.metrics.RunCompleted(runStatus(e.state.CurrentBlockID, e.halted.Load(), runErr), e.now().Sub(started))
	}
	return runErr
}

// step executes one iteration: assemble context, dispatch work, resolve the
// transition, advance, publish.
func (e *Engine) step(ctx context.Context, workingDir string) error {
	current := e.state.CurrentBlockID
	stepStart := e.now()

	nodeID, _, err := manifest.SplitBlockID(current)
	if err != nil {
		return &StructuralError{BlockID: current, Err: err}
	}
	_, block, err := e.manifest.Resolve(current)
	if err != nil {
		return &StructuralError{BlockID: current, Err: err}
	}

	segments, err := memory.Assemble(e.manifest, current, e.state.Payload, e.state.CallStack)
	if err != nil {
		return &StructuralError{BlockID: current, Err: err}
	}

	stepCtx := logger.WithBlockID(logger.WithWorker(ctx, block.Worker), current)
	result, err := e.dispatcher.Execute(stepCtx, &worker.WorkRequest{
		Worker:     block.Worker,
		Context:    segments,
		WorkingDir: workingDir,
	})
	if err != nil {
		e.recordStep(nodeID, block.Worker, "error", stepStart)
		return err
	}

	next, nextStack := e.advance(current, block, result)
	if err := e.adoptStep(current, next, nextStack, result); err != nil {
		e.recordStep(nodeID, block.Worker, "error", stepStart)
		return err
	}

	e.recordStep(nodeID, block.Worker, "success", stepStart)
	logger.Step(current, result.Signal, e.state.CurrentBlockID)
	e.publish()
	return nil
}

// advance selects the transition for the result's signal, falling back to
// FAIL_DEFAULT, and resolves it against the call stack. A miss on both is
// graceful termination.
func (e *Engine) advance(current string, block *manifest.Block, result *worker.WorkResult) (string, []string) {
	tr, ok := block.FindTransition(result.Signal)
	if !ok {
		tr, ok = block.FindTransition(manifest.SignalFailDefault)
	}
	if !ok {
		return "", e.state.CallStack
	}
	return resolveTransition(tr.Action, e.state.CallStack)
}

// adoptStep commits the step's outcome: the new payload, the expanded next
// position, the new stack, statuses, and the transition record.
func (e *Engine) adoptStep(current, next string, nextStack []string, result *worker.WorkResult) error {
	// A node-only target arises from CALL; expand it to the node's entry
	// block before the next iteration.
	if next != "" && manifest.IsNodeRef(next) {
		expanded, err := e.manifest.EntryBlockID(next)
		if err != nil {
			return &StructuralError{BlockID: next, Err: err}
		}
		next = expanded
	}

	e.mu.Lock()
	e.state.Payload = result.NewPayload.Clone()
	e.state.CurrentBlockID = next
	e.state.CallStack = nextStack
	e.mu.Unlock()

	e.lastTransition = &TransitionRecord{From: current, To: next, Signal: result.Signal}
	e.setStatus(current, StatusComplete)
	if next != "" {
		e.setStatus(next, StatusActive)
	}
	return nil
}

func (e *Engine) initStatuses() {
	e.statuses = make(map[string]BlockStatus)
	for nodeID, node := range e.manifest.Nodes {
		for blockName := range node.Blocks {
			e.statuses[manifest.JoinBlockID(nodeID, blockName)] = StatusPending
		}
	}
	e.lastTransition = nil
}

func (e *Engine) setStatus(blockID string, status BlockStatus) {
	if blockID != "" {
		e.statuses[blockID] = status
	}
}

func (e *Engine) recordStep(node, workerID, status string, started time.Time) {
	if e.metrics != nil {
		e.metrics.StepCompleted(node, workerID, status, e.now().Sub(started))
	}
}

func runStatus(currentBlockID string, halted bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case halted && currentBlockID != "":
		return "halted"
	default:
		return "completed"
	}
}
