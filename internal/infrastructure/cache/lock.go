package cache

import (
	"context"
	"errors"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
)

const (
	lockKeyPrefix = "lock:"

	// DefaultLockWait is how long Acquire waits for a lock held elsewhere
	DefaultLockWait      = 2 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
)

// ErrLockNotHeld is returned by Release when the lock expired or was taken over
var ErrLockNotHeld = errors.New("lock is no longer held")

// acquireWithRetry calls try until it succeeds, errors, or the wait budget or ctx runs out.
// Running out maps to ErrConcurrencyConflict so callers can tell the client to retry.
func acquireWithRetry(ctx context.Context, key string, wait, retry time.Duration, try func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := try(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Add(retry).Before(deadline) {
			return lockBusy(key)
		}

		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lockBusy(key).Wrap(ctx.Err())
		case <-timer.C:
		}
	}
}

func lockBusy(key string) *shared.DomainError {
	return shared.ErrConcurrencyConflict.WithDetail("lock", key)
}
