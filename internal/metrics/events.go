package metrics

import (
	"context"

	"github.com/osse101/brandish-progression/internal/event"
	"github.com/osse101/brandish-progression/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all progression events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range []event.Type{event.LevelUp, event.BadgeUnlocked} {
		bus.Subscribe(eventType, InstrumentHandler(e.HandleEvent))
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.LevelUp:
		payload, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		if gained := payload.NewLevel - payload.OldLevel; gained > 0 {
			LevelUps.Add(float64(gained))
		}

	case event.BadgeUnlocked:
		payload, err := event.DecodePayload[event.BadgeUnlockedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		BadgesAwarded.WithLabelValues(payload.BadgeID).Inc()
	}

	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// InstrumentHandler counts errors returned by handler per event type
func InstrumentHandler(handler event.Handler) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		err := handler(ctx, evt)
		if err != nil {
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		}
		return err
	}
}
