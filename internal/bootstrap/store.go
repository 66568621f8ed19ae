package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/brandish-progression/internal/config"
	"github.com/osse101/brandish-progression/internal/database"
	"github.com/osse101/brandish-progression/internal/database/postgres"
)

// OpenStore connects the pool, applies pending migrations and returns the
// postgres store over it. The caller closes the pool.
func OpenStore(ctx context.Context, cfg *config.Config) (*postgres.Store, *pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), int(cfg.DBMaxConns), cfg.DBMaxIdle, cfg.DBMaxLife)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgFailedOpenPool, err)
	}

	if err := database.Migrate(ctx, pool, MigrateUp); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf(ErrMsgFailedMigrate, err)
	}
	slog.Info(LogMsgMigrationsApplied)

	return postgres.NewStore(pool), pool, nil
}
