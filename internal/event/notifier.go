package event

import (
	"context"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
)

// Publisher is the publishing side of the resilient publisher
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt Event)
}

// Notifier adapts progression notifications onto the event bus
type Notifier struct {
	publisher Publisher
}

// NewNotifier creates a notification sink publishing through p
func NewNotifier(p Publisher) *Notifier {
	return &Notifier{publisher: p}
}

// NotifyLevelUp publishes a level up event
func (n *Notifier) NotifyLevelUp(ctx context.Context, evt domain.LevelUpEvent) error {
	n.publisher.PublishWithRetry(ctx, NewLevelUpEvent(evt, levelcurve.Title(evt.NewLevel)))
	return nil
}

// NotifyBadgeUnlock publishes a badge unlocked event
func (n *Notifier) NotifyBadgeUnlock(ctx context.Context, evt domain.BadgeUnlockEvent) error {
	n.publisher.PublishWithRetry(ctx, NewBadgeUnlockedEvent(evt))
	return nil
}

var _ domain.NotificationSink = (*Notifier)(nil)
