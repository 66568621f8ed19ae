package bootstrap

import (
	"log/slog"

	"github.com/osse101/brandish-progression/internal/catalog"
	"github.com/osse101/brandish-progression/internal/config"
	"github.com/osse101/brandish-progression/internal/worker"
)

// StartWorkers schedules the periodic background jobs the configuration
// enables. It returns nil when there is nothing to run.
func StartWorkers(cfg *config.Config, repo catalog.Repository, cache worker.Invalidator) *worker.Scheduler {
	if cfg.CatalogDir == "" || cfg.CatalogReloadInterval <= 0 {
		return nil
	}

	pool := worker.NewPool(1, 1)
	pool.Start()
	sched := worker.NewScheduler(pool)
	sched.Schedule(cfg.CatalogReloadInterval, worker.NewCatalogReloadJob(cfg.CatalogDir, repo, cache))

	slog.Info(LogMsgCatalogReloadScheduled, "path", cfg.CatalogDir, "interval", cfg.CatalogReloadInterval)
	return sched
}
