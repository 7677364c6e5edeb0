package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("availability lock not acquired")

// Locker serializes slot mutations for one entity on one date across
// concurrent requests. The availability record's version check is the
// correctness backstop; the lock keeps contending writers from burning
// their retry budget against each other.
type Locker interface {
	WithEntityDateLock(ctx context.Context, entityType, entityID, date string, fn func(ctx context.Context) error) error
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker keyed per (entity type, entity, date).
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) WithEntityDateLock(ctx context.Context, entityType, entityID, date string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:availability:%s:%s:%s", entityType, entityID, date)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire availability lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// Only the holder of the token may delete the key, so a lock that expired
// and was re-acquired by someone else is never released by the old holder.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release availability lock: %w", err)
	}
	return nil
}

type noopLocker struct{}

// NewNoopLocker returns a pass-through locker for deployments without Redis
// (single instance) and for tests. Version-checked writes still prevent
// lost updates; only cross-instance contention smoothing is lost.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) WithEntityDateLock(ctx context.Context, _, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
