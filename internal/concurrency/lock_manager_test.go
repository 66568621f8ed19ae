package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/domain"
)

func TestLockManager_SameKeySameMutex(t *testing.T) {
	lm := NewLockManager()
	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}

func TestLockManager_AcquireExcludes(t *testing.T) {
	lm := NewLockManager()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lm.Acquire(ctx, "player:1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLockManager_AcquireHonoursContext(t *testing.T) {
	lm := NewLockManager()
	release, err := lm.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = lm.Acquire(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
}

func TestPlayerLocks_Reentrant(t *testing.T) {
	locks := NewPlayerLocks(NewLockManager())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := locks.WithPlayer(ctx, "p1", func(ctx context.Context) error {
			assert.True(t, Held(ctx, "p1"))
			assert.False(t, Held(ctx, "p2"))
			return locks.WithPlayer(ctx, "p1", func(ctx context.Context) error {
				return locks.WithPlayer(ctx, "p2", func(ctx context.Context) error {
					assert.True(t, Held(ctx, "p2"))
					return nil
				})
			})
		})
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested WithPlayer deadlocked")
	}
}

func TestPlayerLocks_SerializesSamePlayer(t *testing.T) {
	locks := NewPlayerLocks(NewLockManager())
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locks.WithPlayer(ctx, "p1", func(context.Context) error {
				v := counter
				time.Sleep(100 * time.Microsecond)
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestPlayerLocks_PropagatesError(t *testing.T) {
	locks := NewPlayerLocks(NewLockManager())
	err := locks.WithPlayer(context.Background(), "p1", func(context.Context) error {
		return domain.ErrInsufficientQuantity
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
}
