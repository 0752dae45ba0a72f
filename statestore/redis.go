package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZapoVerde/robosmith/engine"
)

// defaultTTL is how long a paused run survives before Redis expires it.
const defaultTTL = 7 * 24 * time.Hour

// RedisStore is a Redis-backed Store using JSON values with TTL-based
// cleanup. Suitable when paused runs must outlive the supervising process
// or be resumed from another one.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the time-to-live for stored run states. After this duration
// a paused run is silently discarded. Set 0 for no expiration.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the Redis key prefix. Default is "robosmith".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed run-state store.
//
// Example:
//
//	store := NewRedisStore(
//	    redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
//	    WithTTL(24 * time.Hour),
//	)
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		ttl:    defaultTTL,
		prefix: "robosmith",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) key(runID string) string {
	return s.prefix + ":run:" + runID
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, runID string) (*engine.RunState, error) {
	if runID == "" {
		return nil, ErrInvalidID
	}

	raw, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("run %q: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", runID, err)
	}

	var state engine.RunState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode run %q: %w", runID, err)
	}
	return &state, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, runID string, state *engine.RunState) error {
	if runID == "" {
		return ErrInvalidID
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode run %q: %w", runID, err)
	}
	if err := s.client.Set(ctx, s.key(runID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save run %q: %w", runID, err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return ErrInvalidID
	}
	if err := s.client.Del(ctx, s.key(runID)).Err(); err != nil {
		return fmt.Errorf("delete run %q: %w", runID, err)
	}
	return nil
}
