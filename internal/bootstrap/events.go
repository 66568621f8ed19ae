package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/brandish-progression/internal/config"
	"github.com/osse101/brandish-progression/internal/event"
)

// EventSystem is the bus notifications are published on plus the resilient
// publisher in front of it.
type EventSystem struct {
	Bus       event.Bus
	Publisher *event.ResilientPublisher
	Notifier  *event.Notifier

	redisBus *event.RedisBus
}

// InitializeEventSystem creates the event bus and the resilient publisher.
// With a Redis client events fan out over Redis pub/sub and local handlers
// are fed from the subscription, otherwise an in-memory bus is used.
// Register handlers with RegisterEventHandlers before calling Start.
func InitializeEventSystem(cfg *config.Config, client redis.UniversalClient) (*EventSystem, error) {
	sys := &EventSystem{}
	kind := EventBusMemory
	if client != nil {
		sys.redisBus = event.NewRedisBus(client, event.RedisChannelPrefix)
		sys.Bus = sys.redisBus
		kind = EventBusRedis
	} else {
		sys.Bus = event.NewMemoryBus()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf(ErrMsgFailedCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(sys.Bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.DeadLetterPath)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedCreateResilientPublisher, err)
	}
	sys.Publisher = publisher
	sys.Notifier = event.NewNotifier(publisher)

	slog.Info(LogMsgEventSystemInitialized,
		"bus", kind,
		"max_retries", cfg.EventMaxRetries,
		"retry_delay", cfg.EventRetryDelay,
		"deadletter_path", cfg.DeadLetterPath)

	return sys, nil
}

// Start begins consuming the Redis subscription. It is a no-op for the in-memory bus.
func (s *EventSystem) Start(ctx context.Context) error {
	if s.redisBus == nil {
		return nil
	}
	if err := s.redisBus.Start(ctx); err != nil {
		return fmt.Errorf(ErrMsgFailedStartRedisBus, err)
	}
	return nil
}

// Shutdown flushes pending retries, then stops the Redis subscription
func (s *EventSystem) Shutdown(ctx context.Context) {
	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := s.Publisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}
	if s.redisBus != nil {
		if err := s.redisBus.Close(); err != nil {
			slog.Error(LogMsgRedisBusCloseFailed, "error", err)
		}
	}
}
