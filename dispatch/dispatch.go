// Package dispatch executes units of work against external workers through
// a pool of interchangeable credentials, rotating round-robin and failing
// over on retryable errors.
//
// One Execute call fully resolves — success, fast failure, or pool
// exhaustion — before returning. A dispatcher may be shared across
// concurrent runs; rotation state is guarded by a mutex.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ZapoVerde/robosmith/credentials"
	"github.com/ZapoVerde/robosmith/logger"
	"github.com/ZapoVerde/robosmith/worker"
)

// ErrPoolExhausted is returned when every credential in the pool has been
// tried and failed retryably, or when the pool is empty at call time.
var ErrPoolExhausted = errors.New("credential pool exhausted")

// Recorder receives dispatch observability events. The
// metrics/prometheus package provides an implementation.
type Recorder interface {
	// DispatchAttempt records one credential attempt and its outcome:
	// "success", "retryable", "fatal", or "skipped".
	DispatchAttempt(provider, outcome string)
	// PoolSize records the credential pool size after initialization.
	PoolSize(n int)
}

// TimeFunc returns the current time. Override for deterministic tests.
type TimeFunc func() time.Time

// Dispatcher owns the credential pool and its rotation pointer.
type Dispatcher struct {
	source  credentials.Source
	invoker worker.Invoker
	log     *slog.Logger
	now     TimeFunc

	cooldown time.Duration
	limiter  *rate.Limiter
	metrics  Recorder

	mu       sync.Mutex
	pool     []credentials.Credential
	next     int
	failedAt map[string]time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger overrides the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithTimeFunc sets a custom time function for deterministic tests.
func WithTimeFunc(fn TimeFunc) Option {
	return func(d *Dispatcher) {
		d.now = fn
	}
}

// WithCooldown enables the cooldown extension: a credential that failed
// retryably is skipped until the given duration has elapsed. A skipped
// credential still counts toward pool exhaustion for that call. Disabled by
// default, in which case every call considers the full pool.
func WithCooldown(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.cooldown = d
	}
}

// WithRateLimit gates attempts behind a token-bucket rate limiter shared by
// all callers of this dispatcher.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(d *Dispatcher) {
		d.limiter = rate.NewLimiter(r, burst)
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec Recorder) Option {
	return func(d *Dispatcher) {
		d.metrics = rec
	}
}

// New creates a dispatcher over the given credential source and worker
// invoker. Initialize must be called before Execute.
func New(source credentials.Source, invoker worker.Invoker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:   source,
		invoker:  invoker,
		log:      logger.DefaultLogger,
		now:      time.Now,
		failedAt: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize loads the credential pool once and orders it by credential ID
// so rotation is reproducible across restarts.
func (d *Dispatcher) Initialize(ctx context.Context) error {
	creds, err := d.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	sort.SliceStable(creds, func(i, j int) bool { return creds[i].ID < creds[j].ID })

	d.mu.Lock()
	d.pool = creds
	d.next = 0
	d.failedAt = make(map[string]time.Time)
	d.mu.Unlock()

	if d.metrics != nil {
		d.metrics.PoolSize(len(creds))
	}
	d.log.Debug("dispatcher initialized", "pool_size", len(creds))
	return nil
}

// Execute attempts the request with credentials starting at the rotation
// pointer, advancing the pointer before each attempt so rotation continues
// whether an attempt succeeds or fails. Retryable failures move on to the
// next credential; non-retryable failures propagate immediately; when every
// credential has failed retryably the call returns ErrPoolExhausted.
func (d *Dispatcher) Execute(ctx context.Context, req *worker.WorkRequest) (*worker.WorkResult, error) {
	d.mu.Lock()
	size := len(d.pool)
	d.mu.Unlock()
	if size == 0 {
		return nil, fmt.Errorf("%w: pool is empty", ErrPoolExhausted)
	}

	for attempt := 0; attempt < size; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cred, cooling := d.take()
		if cooling {
			d.record(cred.Provider, "skipped")
			d.log.Debug("credential cooling down, skipping", "credential", cred.ID)
			continue
		}

		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		result, err := d.invoker.Invoke(ctx, cred, req)
		if err == nil {
			d.clearFailure(cred.ID)
			d.record(cred.Provider, "success")
			d.log.Debug("work dispatched", "credential", cred.ID, "worker", req.Worker, "signal", result.Signal)
			return result, nil
		}

		if !Retryable(err) {
			d.record(cred.Provider, "fatal")
			d.log.Error("non-retryable worker failure", "credential", cred.ID, "worker", req.Worker, "error", logger.RedactSecrets(err.Error()))
			return nil, err
		}

		d.recordFailure(cred.ID)
		d.record(cred.Provider, "retryable")
		logger.Failover(cred.ID, d.peekNext(), req.Worker, err)
	}

	d.log.Error("credential pool exhausted", "worker", req.Worker, "pool_size", size)
	return nil, fmt.Errorf("%w: all %d credentials failed", ErrPoolExhausted, size)
}

// PoolSize returns the number of loaded credentials.
func (d *Dispatcher) PoolSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pool)
}

// peekNext returns the id of the credential the rotation pointer sits on,
// without advancing it. Used to name the failover destination in logs.
func (d *Dispatcher) peekNext() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pool) == 0 {
		return ""
	}
	return d.pool[d.next].ID
}

// take selects the credential at the rotation pointer and advances the
// pointer. It also reports whether the credential is still cooling down.
func (d *Dispatcher) take() (credentials.Credential, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cred := d.pool[d.next]
	d.next = (d.next + 1) % len(d.pool)

	if d.cooldown > 0 {
		if failed, ok := d.failedAt[cred.ID]; ok && d.now().Sub(failed) < d.cooldown {
			return cred, true
		}
	}
	return cred, false
}

func (d *Dispatcher) recordFailure(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failedAt[id] = d.now()
}

func (d *Dispatcher) clearFailure(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.failedAt, id)
}

func (d *Dispatcher) record(provider, outcome string) {
	if d.metrics != nil {
		d.metrics.DispatchAttempt(provider, outcome)
	}
}
