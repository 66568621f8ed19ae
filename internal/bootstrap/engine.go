package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/brandish-progression/internal/catalog"
	"github.com/osse101/brandish-progression/internal/concurrency"
	"github.com/osse101/brandish-progression/internal/config"
	"github.com/osse101/brandish-progression/internal/daily"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/progression"
	"github.com/osse101/brandish-progression/internal/repository"
)

// EngineDependencies are the runtime pieces BuildEngine wires together
type EngineDependencies struct {
	Config   *config.Config
	Store    repository.Store
	Notifier domain.NotificationSink
	Locker   concurrency.Locker
}

// BuildEngine wraps the store's catalog reads in an LRU cache and builds the
// progression engine with the configured streak calendar. The cache is
// returned so callers can invalidate it after a catalog sync.
func BuildEngine(deps EngineDependencies) (progression.Engine, *catalog.CachedCatalog, error) {
	loc, err := deps.Config.StreakLocation()
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgInvalidTimezone, err)
	}

	cached := catalog.NewCachedCatalog(deps.Store, deps.Config.CatalogCacheSize, deps.Config.CatalogCacheTTL)
	engine := progression.NewEngine(progression.Dependencies{
		Store:    deps.Store,
		Catalog:  cached,
		Notifier: deps.Notifier,
		Locker:   deps.Locker,
		Daily:    daily.Config{Location: loc},
	})

	slog.Info(progression.LogMsgEngineReady,
		"streak_timezone", loc.String(),
		"catalog_cache_size", deps.Config.CatalogCacheSize,
		"catalog_cache_ttl", deps.Config.CatalogCacheTTL)
	return engine, cached, nil
}
