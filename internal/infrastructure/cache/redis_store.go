package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cosecha/backend/internal/domain/shared"
	"github.com/cosecha/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries our token
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisStore implements IdempotencyStore and Locker on Redis, so checkout keys
// and cart locks are shared by every instance of the service.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	lockWait  time.Duration
	retry     time.Duration
}

// RedisStoreOption configures a RedisStore
type RedisStoreOption func(*RedisStore)

// WithRedisLockWait bounds how long Acquire waits for a held lock
func WithRedisLockWait(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.lockWait = d
	}
}

// NewRedisClient creates a client from configuration and checks the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client; keyPrefix namespaces every key
func NewRedisStore(client *redis.Client, keyPrefix string, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		lockWait:  DefaultLockWait,
		retry:     defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkProcessed uses SET NX with TTL in a single round trip
func (s *RedisStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark %s as processed: %w", key, err)
	}
	return ok, nil
}

// IsProcessed checks if key has already been marked
func (s *RedisStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

// Acquire takes the lock with SET NX PX, retrying until the wait budget runs out
func (s *RedisStore) Acquire(ctx context.Context, key string, ttl time.Duration) (shared.Unlocker, error) {
	token := uuid.NewString()
	lockKey := s.keyPrefix + lockKeyPrefix + key
	err := acquireWithRetry(ctx, key, s.lockWait, s.retry, func(ctx context.Context) (bool, error) {
		ok, err := s.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}
	return &redisLock{client: s.client, key: lockKey, token: token}, nil
}

// Ping checks the connection, for readiness probes
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

var (
	_ shared.IdempotencyStore = (*RedisStore)(nil)
	_ shared.Locker           = (*RedisStore)(nil)
)
