package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus publishes events as JSON over Redis pub/sub so that processes
// other than the engine can react to them. Local subscribers are fed from a
// pattern subscription started by Start.
type RedisBus struct {
	client redis.UniversalClient
	prefix string

	mu       sync.RWMutex
	handlers map[Type][]Handler

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRedisBus creates a bus on client. An empty prefix selects RedisChannelPrefix.
func NewRedisBus(client redis.UniversalClient, prefix string) *RedisBus {
	if prefix == "" {
		prefix = RedisChannelPrefix
	}
	return &RedisBus{
		client:   client,
		prefix:   prefix,
		handlers: make(map[Type][]Handler),
	}
}

// Channel returns the pub/sub channel used for eventType
func (b *RedisBus) Channel(eventType Type) string {
	return b.prefix + string(eventType)
}

// Publish encodes the event and sends it on its channel
func (b *RedisBus) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", evt.Type, err)
	}
	if err := b.client.Publish(ctx, b.Channel(evt.Type), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", evt.Type, err)
	}
	return nil
}

// Subscribe registers a local handler. Handlers only run after Start.
func (b *RedisBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Start subscribes to every channel under the prefix and dispatches incoming
// events to local handlers until Close is called or ctx is cancelled.
func (b *RedisBus) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	pubsub := b.client.PSubscribe(ctx, b.prefix+"*")
	// Wait for the subscription confirmation so Publish calls made after
	// Start returns are not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s*: %w", b.prefix, err)
	}

	b.cancel = cancel
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.dispatch(ctx, msg)
			}
		}
	}()
	return nil
}

func (b *RedisBus) dispatch(ctx context.Context, msg *redis.Message) {
	var evt Event
	if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
		slog.Default().Warn(LogMsgRedisDecodeFailed, "channel", msg.Channel, "error", err)
		return
	}
	if evt.Type == "" {
		evt.Type = Type(strings.TrimPrefix(msg.Channel, b.prefix))
	}

	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			slog.Default().Warn(LogMsgRedisHandlerFailed, "event_type", evt.Type, "error", err)
		}
	}
}

// Close stops the dispatch loop started by Start
func (b *RedisBus) Close() error {
	if b.cancel == nil {
		return nil
	}
	b.cancel()
	<-b.done
	b.cancel = nil
	return nil
}
