package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/brandish-progression/internal/logger"
)

// retryEntry tracks a queued event and how often it has been attempted
type retryEntry struct {
	event    Event
	attempts int
	lastErr  error
}

// ResilientPublisher wraps an event Bus with asynchronous retries and a
// dead-letter file for events that could not be delivered.
type ResilientPublisher struct {
	bus          Bus
	retryQueue   chan retryEntry
	maxRetries   int
	retryDelay   time.Duration
	shutdown     chan struct{}
	shutdownOnce sync.Once
	deadLetter   *DeadLetterWriter
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker.
// baseDelay is doubled on every retry.
func NewResilientPublisher(bus Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: baseDelay,
		shutdown:   make(chan struct{}),
		deadLetter: dlw,
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// Publish implements Bus so the publisher can stand in for the bus it wraps.
// Delivery failures are absorbed by the retry queue and never returned.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe registers the handler on the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

// PublishWithRetry makes one synchronous attempt and queues the event for
// background retries when it fails.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	entry := retryEntry{event: evt, attempts: 1, lastErr: err}

	select {
	case <-rp.shutdown:
		log.Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type, "error", err)
		rp.writeDeadLetter(log, entry)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
		log.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	default:
		log.Error(LogMsgRetryQueueFull, "event_type", evt.Type, "error", err)
		rp.writeDeadLetter(log, entry)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case entry := <-rp.retryQueue:
			rp.retry(entry)
		case <-rp.shutdown:
			rp.drain()
			return
		}
	}
}

// retry keeps attempting one entry with exponential backoff until it is
// delivered, retries are exhausted, or the publisher shuts down.
func (rp *ResilientPublisher) retry(entry retryEntry) {
	log := slog.Default()

	for retries := 1; retries <= rp.maxRetries; retries++ {
		select {
		case <-time.After(CalculateRetryDelay(rp.retryDelay, retries)):
		case <-rp.shutdown:
			rp.finalAttempt(entry)
			return
		}

		entry.attempts++
		err := rp.bus.Publish(context.Background(), entry.event)
		if err == nil {
			log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempts", entry.attempts)
			return
		}
		entry.lastErr = err
		log.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempts", entry.attempts, "error", err)
	}

	log.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts, "error", entry.lastErr)
	rp.writeDeadLetter(log, entry)
}

// drain gives every still-queued entry one last attempt
func (rp *ResilientPublisher) drain() {
	for {
		select {
		case entry := <-rp.retryQueue:
			rp.finalAttempt(entry)
		default:
			return
		}
	}
}

func (rp *ResilientPublisher) finalAttempt(entry retryEntry) {
	entry.attempts++
	err := rp.bus.Publish(context.Background(), entry.event)
	if err == nil {
		return
	}
	entry.lastErr = err
	log := slog.Default()
	log.Warn(LogMsgEventDroppedShutdown, "event_type", entry.event.Type, "attempts", entry.attempts, "error", err)
	rp.writeDeadLetter(log, entry)
}

func (rp *ResilientPublisher) writeDeadLetter(log *slog.Logger, entry retryEntry) {
	if rp.deadLetter == nil {
		return
	}
	if err := rp.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker, flushing queued events, and closes the
// dead-letter file. It returns ctx.Err() if the worker does not finish in time.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Default().Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return ctx.Err()
	}

	if rp.deadLetter != nil {
		return rp.deadLetter.Close()
	}
	return nil
}
