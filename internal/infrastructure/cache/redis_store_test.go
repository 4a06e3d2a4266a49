package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisStore connects to REDIS_ADDR (default localhost:6379) or skips
func newTestRedisStore(t *testing.T, opts ...RedisStoreOption) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	// a fresh prefix per test keeps runs independent without FLUSHDB
	store := NewRedisStore(client, "cosecha-test:"+uuid.NewString()+":", opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_MarkProcessed(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "checkout:c1:k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "checkout:c1:k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "checkout:c1:k1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "checkout:c1:other")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRedisStore_MarkProcessedExpires(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "short", 50*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "short")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRedisStore_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("contention yields a conflict", func(t *testing.T) {
		store := newTestRedisStore(t, WithRedisLockWait(50*time.Millisecond))

		lock, err := store.Acquire(ctx, "cart:c1", time.Minute)
		require.NoError(t, err)

		_, err = store.Acquire(ctx, "cart:c1", time.Minute)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		require.NoError(t, lock.Release(ctx))

		again, err := store.Acquire(ctx, "cart:c1", time.Minute)
		require.NoError(t, err)
		require.NoError(t, again.Release(ctx))
	})

	t.Run("release after expiry does not delete the new holder", func(t *testing.T) {
		store := newTestRedisStore(t, WithRedisLockWait(0))

		stale, err := store.Acquire(ctx, "cart:c2", 50*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)

		fresh, err := store.Acquire(ctx, "cart:c2", time.Minute)
		require.NoError(t, err)

		assert.ErrorIs(t, stale.Release(ctx), ErrLockNotHeld)

		_, err = store.Acquire(ctx, "cart:c2", time.Minute)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict, "fresh holder must still own the lock")
		require.NoError(t, fresh.Release(ctx))
	})

	t.Run("ping", func(t *testing.T) {
		store := newTestRedisStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}
