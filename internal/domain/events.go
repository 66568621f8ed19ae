package domain

import (
	"context"
	"time"
)

// Event type constants published on the event bus.
// Event types follow the pattern: <domain>.<action>
const (
	// EventTypeLevelUp is published when an experience grant crosses one or more level thresholds
	EventTypeLevelUp = "progression.level_up"

	// EventTypeBadgeUnlocked is published when a player earns a badge
	EventTypeBadgeUnlocked = "progression.badge_unlocked"
)

// LevelUpEvent is delivered once per experience grant that gained levels
type LevelUpEvent struct {
	PlayerID   string       `json:"player_id"`
	OldLevel   int          `json:"old_level"`
	NewLevel   int          `json:"new_level"`
	Rewards    []RewardSpec `json:"rewards"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// BadgeUnlockEvent is delivered when a badge is earned
type BadgeUnlockEvent struct {
	PlayerID   string    `json:"player_id"`
	BadgeID    string    `json:"badge_id"`
	Name       string    `json:"name"`
	Rarity     Rarity    `json:"rarity"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationSink delivers progression notifications. Delivery failures are
// logged by callers and never fail the operation that produced them.
type NotificationSink interface {
	NotifyLevelUp(ctx context.Context, evt LevelUpEvent) error
	NotifyBadgeUnlock(ctx context.Context, evt BadgeUnlockEvent) error
}
