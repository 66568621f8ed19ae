package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/brandish-progression/internal/catalog"
	"github.com/osse101/brandish-progression/internal/config"
)

// SyncCatalog loads the catalog from CATALOG_DIR, or the embedded default
// catalog when it is unset, validates it and upserts it into repo.
func SyncCatalog(ctx context.Context, cfg *config.Config, repo catalog.Repository) (*catalog.SyncResult, error) {
	return SyncCatalogFrom(ctx, cfg.CatalogDir, repo)
}

// SyncCatalogFrom is SyncCatalog for an explicit path. An empty path selects
// the embedded catalog.
func SyncCatalogFrom(ctx context.Context, path string, repo catalog.Repository) (*catalog.SyncResult, error) {
	loader := catalog.NewLoader()

	source := path
	if source == "" {
		source = CatalogSourceEmbedded
	}
	slog.Info(LogMsgSyncingCatalog, "source", source)

	var (
		cfg *catalog.Config
		err error
	)
	if path == "" {
		cfg, err = loader.LoadDefault()
	} else {
		cfg, err = loader.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedLoadCatalog, err)
	}

	result, err := loader.Sync(ctx, cfg, repo)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgFailedSyncCatalog, err)
	}

	slog.Info(LogMsgCatalogSynced,
		"source", source,
		"items", result.ItemsUpserted,
		"badges", result.BadgesUpserted,
		"daily_rewards", result.DailyRewardsUpserted)
	return result, nil
}
