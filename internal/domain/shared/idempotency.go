package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been handled.
// Checkout uses it to reject replays of the same Idempotency-Key.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// Locker serializes work on a single key across goroutines and, when backed by
// Redis, across processes.
type Locker interface {
	// Acquire takes the lock for key. It returns ErrConcurrencyConflict when the
	// lock is held elsewhere and could not be obtained before ctx is done or the
	// wait budget runs out.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlocker, error)
}

// Unlocker releases a lock obtained from a Locker
type Unlocker interface {
	Release(ctx context.Context) error
}
