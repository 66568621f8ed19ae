package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/brandish-progression/internal/event"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the event
// logger to the progression events on bus.
func RegisterEventHandlers(bus event.Bus) error {
	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return fmt.Errorf(ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	bus.Subscribe(event.LevelUp, metrics.InstrumentHandler(logLevelUp))
	bus.Subscribe(event.BadgeUnlocked, metrics.InstrumentHandler(logBadgeUnlocked))
	slog.Info(LogMsgEventLoggerInitialized)

	return nil
}

func logLevelUp(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgLevelUpEvent,
		"player_id", payload.PlayerID,
		"old_level", payload.OldLevel,
		"new_level", payload.NewLevel,
		"title", payload.Title,
		"rewards", len(payload.Rewards))
	return nil
}

func logBadgeUnlocked(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.BadgeUnlockedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgBadgeUnlockedEvent,
		"player_id", payload.PlayerID,
		"badge_id", payload.BadgeID,
		"rarity", payload.Rarity)
	return nil
}
