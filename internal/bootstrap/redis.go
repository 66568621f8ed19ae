package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/config"
)

// NewRedisClient connects to REDIS_ADDR. It returns a nil client when Redis
// is not configured.
func NewRedisClient(ctx context.Context, cfg *config.Config) (redis.UniversalClient, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgRedisDisabled)
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf(ErrMsgFailedRedisPing, cfg.RedisAddr, err)
	}

	slog.Info(LogMsgRedisConnected, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return client, nil
}

// NewLocker picks the player locker: a Redis lock shared by every engine
// process when a client is given, an in-process lock otherwise.
func NewLocker(cfg *config.Config, client redis.UniversalClient) concurrency.Locker {
	if client == nil {
		slog.Info(LogMsgLockerInitialized, "locker", LockerLocal)
		return concurrency.NewLockManager()
	}
	slog.Info(LogMsgLockerInitialized, "locker", LockerRedis, "ttl", cfg.LockTTL, "wait", cfg.LockWait)
	return concurrency.NewRedisLocker(client, cfg.LockTTL, cfg.LockWait)
}
