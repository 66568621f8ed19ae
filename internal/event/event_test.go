package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(LevelUp, func(ctx context.Context, evt Event) error {
		got = append(got, evt)
		return nil
	})

	err := bus.Publish(context.Background(), Event{Version: EventSchemaVersion, Type: LevelUp, Payload: "payload"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "payload", got[0].Payload)

	// Other types are not delivered
	require.NoError(t, bus.Publish(context.Background(), Event{Type: BadgeUnlocked}))
	assert.Len(t, got, 1)
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	count := 0
	handler := func(ctx context.Context, evt Event) error {
		count++
		return nil
	}

	bus.Subscribe(BadgeUnlocked, handler)
	bus.Subscribe(BadgeUnlocked, handler)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: BadgeUnlocked}))
	assert.Equal(t, 2, count)
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	called := false

	bus.Subscribe(LevelUp, func(ctx context.Context, evt Event) error {
		return errors.New("handler error")
	})
	bus.Subscribe(LevelUp, func(ctx context.Context, evt Event) error {
		called = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: LevelUp})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler error")
	assert.True(t, called, "later handlers still run after a failure")
}

func TestNewLevelUpEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	evt := NewLevelUpEvent(domain.LevelUpEvent{
		PlayerID:   "p1",
		OldLevel:   4,
		NewLevel:   5,
		Rewards:    []domain.RewardSpec{{Type: domain.RewardKindCurrency, Amount: 500}},
		OccurredAt: at,
	}, "Novice")

	assert.Equal(t, LevelUp, evt.Type)
	assert.Equal(t, EventSchemaVersion, evt.Version)
	assert.Equal(t, "2026-03-01T12:00:00Z", evt.GetMetadataValue(MetadataKeyOccurredAt))

	payload, err := DecodePayload[LevelUpPayloadV1](evt.Payload)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, 5, payload.NewLevel)
	assert.Equal(t, "Novice", payload.Title)
	assert.Len(t, payload.Rewards, 1)
}

func TestDecodePayload_FromGenericMap(t *testing.T) {
	raw := map[string]interface{}{
		"player_id": "p2",
		"badge_id":  "first_quest",
		"name":      "First Steps",
		"rarity":    "common",
	}

	payload, err := DecodePayload[BadgeUnlockedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "first_quest", payload.BadgeID)
	assert.Equal(t, domain.Rarity("common"), payload.Rarity)
}

func TestGetMetadataValue_NonMap(t *testing.T) {
	evt := Event{Metadata: "opaque"}
	assert.Nil(t, evt.GetMetadataValue("anything"))
}

type capturePublisher struct {
	events []Event
}

func (c *capturePublisher) PublishWithRetry(ctx context.Context, evt Event) {
	c.events = append(c.events, evt)
}

func TestNotifier(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub)
	ctx := context.Background()

	require.NoError(t, n.NotifyLevelUp(ctx, domain.LevelUpEvent{PlayerID: "p1", OldLevel: 10, NewLevel: 11}))
	require.NoError(t, n.NotifyBadgeUnlock(ctx, domain.BadgeUnlockEvent{PlayerID: "p1", BadgeID: "level_10", Rarity: domain.RarityRare}))

	require.Len(t, pub.events, 2)
	assert.Equal(t, LevelUp, pub.events[0].Type)
	assert.Equal(t, "Apprentice", pub.events[0].Payload.(LevelUpPayloadV1).Title)
	assert.Equal(t, BadgeUnlocked, pub.events[1].Type)
	assert.Equal(t, "level_10", pub.events[1].Payload.(BadgeUnlockedPayloadV1).BadgeID)
}
