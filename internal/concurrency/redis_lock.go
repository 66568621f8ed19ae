package concurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/logger"
)

// Redis lock defaults
const (
	DefaultLockTTL     = 30 * time.Second
	DefaultLockWait    = 10 * time.Second
	DefaultLockRetry   = 25 * time.Millisecond
	RedisLockKeyPrefix = "progression:lock:"
	releaseTimeout     = 2 * time.Second
)

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared across processes. Each lock is a key set with
// SET NX PX carrying a random token; release only deletes a key we still own.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisLocker creates a RedisLocker. Zero durations take the defaults.
func NewRedisLocker(client redis.UniversalClient, ttl, wait time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &RedisLocker{client: client, ttl: ttl, wait: wait, retry: DefaultLockRetry}
}

// Acquire polls SET NX until the key is free or the wait elapses
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := RedisLockKeyPrefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return l.releaseFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", domain.ErrLockTimeout, key)
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisLocker) releaseFunc(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			logger.FromContext(ctx).Error("Failed to release redis lock", "key", redisKey, "error", err)
		}
	}
}
