package event

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/testing/containers"
)

func TestRedisBus_Integration(t *testing.T) {
	addr := containers.StartRedis(t)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	bus := NewRedisBus(client, "")
	received := make(chan Event, 1)
	bus.Subscribe(BadgeUnlocked, func(ctx context.Context, evt Event) error {
		received <- evt
		return nil
	})

	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Close() })

	evt := NewBadgeUnlockedEvent(domain.BadgeUnlockEvent{PlayerID: "p1", BadgeID: "streak_7", Name: "Week Warrior", Rarity: domain.RarityUncommon})
	require.NoError(t, bus.Publish(ctx, evt))

	select {
	case got := <-received:
		assert.Equal(t, BadgeUnlocked, got.Type)
		payload, err := DecodePayload[BadgeUnlockedPayloadV1](got.Payload)
		require.NoError(t, err)
		assert.Equal(t, "streak_7", payload.BadgeID)
		assert.Equal(t, domain.RarityUncommon, payload.Rarity)
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered over redis")
	}

	assert.Equal(t, RedisChannelPrefix+string(LevelUp), bus.Channel(LevelUp))
}
