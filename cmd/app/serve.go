package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/brandish-progression/internal/bootstrap"
	"github.com/osse101/brandish-progression/internal/config"
	"github.com/osse101/brandish-progression/internal/handler"
	"github.com/osse101/brandish-progression/internal/server"
	"github.com/osse101/brandish-progression/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveSkipSync, "skip-catalog-sync", false, "Serve the catalog already in the database")
	rootCmd.AddCommand(serveCmd)
}

var (
	servePort     int
	serveSkipSync bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Migrate the database, sync the catalog and serve the ops endpoints
plus, when API_KEY is set, the player API.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	slog.Info(bootstrap.LogMsgStartingService, "version", cfg.Version, "environment", cfg.Environment)
	slog.Info(bootstrap.LogMsgConfigurationLoaded,
		"port", cfg.Port, "db_host", cfg.DBHost, "redis", cfg.RedisAddr != "")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c bootstrap.ShutdownComponents
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, c)
	}()

	c.Telemetry, err = telemetry.Setup(ctx, cfg.ServiceName, cfg.Version, cfg.OTelEndpoint)
	if err != nil {
		return err
	}

	store, pool, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	c.Pool = pool

	if !serveSkipSync {
		if _, err := bootstrap.SyncCatalog(ctx, cfg, store); err != nil {
			return err
		}
	}

	redisClient, err := bootstrap.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	readiness := map[string]handler.Pinger{"database": store}
	if redisClient != nil {
		c.Redis = redisClient
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	events, err := bootstrap.InitializeEventSystem(cfg, redisClient)
	if err != nil {
		return err
	}
	c.Events = events
	if err := bootstrap.RegisterEventHandlers(events.Bus); err != nil {
		return err
	}
	if err := events.Start(ctx); err != nil {
		return err
	}

	engine, cache, err := bootstrap.BuildEngine(bootstrap.EngineDependencies{
		Config:   cfg,
		Store:    store,
		Notifier: events.Notifier,
		Locker:   bootstrap.NewLocker(cfg, redisClient),
	})
	if err != nil {
		return err
	}

	c.Workers = bootstrap.StartWorkers(cfg, store, cache)

	srv := server.NewServer(cfg.Port, server.Options{
		Version:        cfg.Version,
		Readiness:      readiness,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Engine:         engine,
		Catalog:        cache,
	})
	c.Server = srv

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
