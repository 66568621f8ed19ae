package concurrency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/testing/containers"
)

func TestRedisLocker_Integration(t *testing.T) {
	addr := containers.StartRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	t.Run("ExclusiveAcrossLockers", func(t *testing.T) {
		a := NewRedisLocker(client, time.Second, 100*time.Millisecond)
		b := NewRedisLocker(client, time.Second, 100*time.Millisecond)

		release, err := a.Acquire(ctx, "player:x")
		require.NoError(t, err)

		_, err = b.Acquire(ctx, "player:x")
		assert.ErrorIs(t, err, domain.ErrLockTimeout)

		release()
		release2, err := b.Acquire(ctx, "player:x")
		require.NoError(t, err)
		release2()
	})

	t.Run("ReleaseKeepsForeignToken", func(t *testing.T) {
		l := NewRedisLocker(client, 50*time.Millisecond, time.Second)
		release, err := l.Acquire(ctx, "player:y")
		require.NoError(t, err)

		// our key expires and another holder takes it
		time.Sleep(100 * time.Millisecond)
		release2, err := l.Acquire(ctx, "player:y")
		require.NoError(t, err)

		release()
		exists, err := client.Exists(ctx, RedisLockKeyPrefix+"player:y").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
		release2()
	})

	t.Run("SerializesPlayerMutations", func(t *testing.T) {
		locks := NewPlayerLocks(NewRedisLocker(client, 5*time.Second, 5*time.Second))
		counter := 0
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := locks.WithPlayer(ctx, "z", func(context.Context) error {
					v := counter
					time.Sleep(2 * time.Millisecond)
					counter = v + 1
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, counter)
	})
}
