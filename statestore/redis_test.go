package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleState()))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Main.build", loaded.CurrentBlockID)
	assert.Equal(t, []string{"Main.done"}, loaded.CallStack)
	require.Len(t, loaded.Payload.Segments, 1)
	assert.Equal(t, "draft", loaded.Payload.Segments[0].Content)
}

func TestRedisStoreNotFound(t *testing.T) {
	store, _ := setupRedisStore(t)
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreEmptyID(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, store.Save(ctx, "", sampleState()), ErrInvalidID)
	assert.ErrorIs(t, store.Delete(ctx, ""), ErrInvalidID)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleState()))
	require.NoError(t, store.Delete(ctx, "run-1"))

	_, err := store.Load(ctx, "run-1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleState()))

	mr.FastForward(2 * time.Hour)

	_, err := store.Load(ctx, "run-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	store, mr := setupRedisStore(t, WithPrefix("custom"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", sampleState()))
	assert.True(t, mr.Exists("custom:run:run-1"))
}

func TestRedisStoreConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	mr.Close()

	err := store.Save(context.Background(), "run-1", sampleState())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
