package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from map metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Progression event types
const (
	LevelUp       Type = Type(domain.EventTypeLevelUp)
	BadgeUnlocked Type = Type(domain.EventTypeBadgeUnlocked)
)

// LevelUpPayloadV1 is the typed payload for level up events
type LevelUpPayloadV1 struct {
	PlayerID string              `json:"player_id"`
	OldLevel int                 `json:"old_level"`
	NewLevel int                 `json:"new_level"`
	Rewards  []domain.RewardSpec `json:"rewards"`
	Title    string              `json:"title,omitempty"`
}

// BadgeUnlockedPayloadV1 is the typed payload for badge unlock events
type BadgeUnlockedPayloadV1 struct {
	PlayerID string        `json:"player_id"`
	BadgeID  string        `json:"badge_id"`
	Name     string        `json:"name"`
	Rarity   domain.Rarity `json:"rarity"`
}

// NewLevelUpEvent creates a level up event from the engine notification
func NewLevelUpEvent(evt domain.LevelUpEvent, title string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{
			PlayerID: evt.PlayerID,
			OldLevel: evt.OldLevel,
			NewLevel: evt.NewLevel,
			Rewards:  evt.Rewards,
			Title:    title,
		},
		Metadata: map[string]interface{}{
			MetadataKeyOccurredAt: occurredAt(evt.OccurredAt),
		},
	}
}

// NewBadgeUnlockedEvent creates a badge unlock event from the engine notification
func NewBadgeUnlockedEvent(evt domain.BadgeUnlockEvent) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    BadgeUnlocked,
		Payload: BadgeUnlockedPayloadV1{
			PlayerID: evt.PlayerID,
			BadgeID:  evt.BadgeID,
			Name:     evt.Name,
			Rarity:   evt.Rarity,
		},
		Metadata: map[string]interface{}{
			MetadataKeyOccurredAt: occurredAt(evt.OccurredAt),
		},
	}
}

func occurredAt(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and aggregates their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
