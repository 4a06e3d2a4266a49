package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// entry is a key held until expiresAt; token identifies the lock owner
type entry struct {
	token     string
	expiresAt time.Time
}

// InMemoryStore implements IdempotencyStore and Locker with a process-local map.
// It is suitable for single-instance deployments and testing: neither the
// checkout keys nor the cart locks are shared across processes.
type InMemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	lockWait  time.Duration
	retry     time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// InMemoryStoreOption configures an InMemoryStore
type InMemoryStoreOption func(*InMemoryStore)

// WithInMemoryLockWait bounds how long Acquire waits for a held lock
func WithInMemoryLockWait(d time.Duration) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.lockWait = d
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewInMemoryStore creates a store and starts a janitor that drops expired keys
func NewInMemoryStore(opts ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		entries:  make(map[string]entry),
		lockWait: DefaultLockWait,
		retry:    defaultRetryInterval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

// MarkProcessed returns true if key was newly marked, false if it is already held
func (s *InMemoryStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.setNX(key, "1", ttl), nil
}

// IsProcessed reports whether key is held and not expired
func (s *InMemoryStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return ok && s.now().Before(e.expiresAt), nil
}

// Acquire takes the lock for key, polling until it is free or the wait budget runs out
func (s *InMemoryStore) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.Unlocker, error) {
	token := uuid.NewString()
	lockKey := lockKeyPrefix + key
	err := acquireWithRetry(ctx, key, s.lockWait, s.retry, func(context.Context) (bool, error) {
		return s.setNX(lockKey, token, ttl), nil
	})
	if err != nil {
		return nil, err
	}
	return &inMemoryLock{store: s, key: lockKey, token: token}, nil
}

// Ping always succeeds
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close stops the janitor. Safe to call multiple times.
func (s *InMemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired or not
func (s *InMemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryStore) setNX(key, token string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	s.entries[key] = entry{token: token, expiresAt: now.Add(ttl)}
	return true
}

// deleteIfOwned removes key only while token still owns it
func (s *InMemoryStore) deleteIfOwned(key, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.token != token || !s.now().Before(e.expiresAt) {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *InMemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

type inMemoryLock struct {
	store *InMemoryStore
	key   string
	token string
}

func (l *inMemoryLock) Release(ctx context.Context) error {
	if !l.store.deleteIfOwned(l.key, l.token) {
		return ErrLockNotHeld
	}
	return nil
}

var (
	_ shared.IdempotencyStore = (*InMemoryStore)(nil)
	_ shared.Locker           = (*InMemoryStore)(nil)
)
