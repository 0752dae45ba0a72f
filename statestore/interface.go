// Package statestore persists paused run state. A store holds the
// serializable {current block, payload, call stack} triple the engine
// exposes, keyed by run id, so a run can be halted, stored, and resumed
// later — possibly by a different process.
package statestore

import (
	"context"
	"errors"

	"github.com/ZapoVerde/robosmith/engine"
)

// ErrNotFound is returned when a run doesn't exist in the store.
var ErrNotFound = errors.New("run state not found")

// ErrInvalidID is returned when an empty or malformed run id is provided.
var ErrInvalidID = errors.New("invalid run id")

// Store is the interface for durable run-state storage.
type Store interface {
	// Load retrieves a paused run's state by run id.
	Load(ctx context.Context, runID string) (*engine.RunState, error)

	// Save persists a run's state, overwriting any previous state for the
	// same run id.
	Save(ctx context.Context, runID string, state *engine.RunState) error

	// Delete removes a run's state. Deleting an unknown run id is not an
	// error.
	Delete(ctx context.Context, runID string) error
}
