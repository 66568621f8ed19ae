package concurrency

import "context"

const playerKeyPrefix = "player:"

type heldKey struct{ playerID string }

// PlayerLocks serializes mutations per player. A call made while the same
// player's lock is already held further up the context runs without locking
// again, so nested operations (a level reward granting a badge whose reward is
// experience) never deadlock on themselves.
type PlayerLocks struct {
	locker Locker
}

// NewPlayerLocks wraps locker with per-player re-entrancy
func NewPlayerLocks(locker Locker) *PlayerLocks {
	return &PlayerLocks{locker: locker}
}

// WithPlayer runs fn while holding playerID's lock
func (p *PlayerLocks) WithPlayer(ctx context.Context, playerID string, fn func(ctx context.Context) error) error {
	if Held(ctx, playerID) {
		return fn(ctx)
	}

	release, err := p.locker.Acquire(ctx, playerKeyPrefix+playerID)
	if err != nil {
		return err
	}
	defer release()

	return fn(context.WithValue(ctx, heldKey{playerID}, true))
}

// Held reports whether ctx was derived inside WithPlayer for playerID
func Held(ctx context.Context, playerID string) bool {
	held, _ := ctx.Value(heldKey{playerID}).(bool)
	return held
}
