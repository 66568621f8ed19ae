package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/brandish-progression/internal/domain"
)

// lockPollInterval is how often a contended in-process lock is retried
const lockPollInterval = 2 * time.Millisecond

// Locker grants exclusive access to a key until release is called
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LockManager provides in-process mutual exclusion keyed by string
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it if necessary
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Acquire blocks until the key's mutex is held or ctx is done
func (lm *LockManager) Acquire(ctx context.Context, key string) (func(), error) {
	mu := lm.GetLock(key)
	if mu.TryLock() {
		return mu.Unlock, nil
	}

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
			if mu.TryLock() {
				return mu.Unlock, nil
			}
		}
	}
}
