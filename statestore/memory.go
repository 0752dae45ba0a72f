package statestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZapoVerde/robosmith/engine"
)

// MemoryStore is an in-memory Store for tests and single-process use. All
// states are deep-copied on the way in and out, so callers can keep
// mutating their engine after saving.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*engine.RunState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*engine.RunState),
	}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, runID string) (*engine.RunState, error) {
	if runID == "" {
		return nil, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[runID]
	if !ok {
		return nil, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	return state.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, runID string, state *engine.RunState) error {
	if runID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[runID] = state.Clone()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, runID string) error {
	if runID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, runID)
	return nil
}

// Len returns the number of stored runs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
