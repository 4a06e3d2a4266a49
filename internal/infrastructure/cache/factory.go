package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Store is what checkout needs from the cache: idempotency keys and cart locks
type Store interface {
	shared.IdempotencyStore
	shared.Locker
	Ping(ctx context.Context) error
	Close() error
}

// StoreFactory creates the cache store based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	lockWait              time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithLockWait sets how long lock acquisition waits before reporting a conflict
func WithLockWait(d time.Duration) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.lockWait = d
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		lockWait:              DefaultLockWait,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore connects to Redis and returns a shared store
func (f *StoreFactory) CreateRedisStore(ctx context.Context) (*RedisStore, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client, f.redisConfig.KeyPrefix, WithRedisLockWait(f.lockWait)), nil
}

// CreateInMemoryStore creates a process-local store
func (f *StoreFactory) CreateInMemoryStore() *InMemoryStore {
	return NewInMemoryStore(WithInMemoryLockWait(f.lockWait))
}

// CreateStore returns the Redis store when Redis is enabled and reachable.
// A disabled Redis always yields the in-memory store; an unreachable one does
// so only when the fallback is allowed.
func (f *StoreFactory) CreateStore(ctx context.Context) (Store, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory cart locks and checkout keys")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore(ctx)
	if err == nil {
		f.logger.Info("using Redis for cart locks and checkout keys", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory store. "+
		"Cart locks and checkout keys will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
