package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/brandish-progression/internal/server"
	"github.com/osse101/brandish-progression/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server    *server.Server
	Workers   *worker.Scheduler
	Events    *EventSystem
	Redis     io.Closer
	Pool      *pgxpool.Pool
	Telemetry func(context.Context) error
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Background workers
// 3. Event publisher (flush pending retries while Redis is still up)
// 4. Redis client and database pool
// 5. Tracer provider (export the spans of everything above)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	if c.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Workers != nil {
		slog.Info(LogMsgStoppingWorkers)
		c.Workers.Stop()
	}

	if c.Events != nil {
		c.Events.Shutdown(ctx)
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error(LogMsgRedisCloseFailed, "error", err)
		}
	}

	if c.Pool != nil {
		c.Pool.Close()
		slog.Info(LogMsgDatabaseClosed)
	}

	if c.Telemetry != nil {
		if err := c.Telemetry(ctx); err != nil {
			slog.Error(LogMsgTelemetryShutdownFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
