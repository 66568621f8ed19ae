package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/brandish-progression/internal/bootstrap"
	"github.com/osse101/brandish-progression/internal/database"
	"github.com/osse101/brandish-progression/internal/database/postgres"
)

func init() {
	catalogCmd.AddCommand(catalogSyncCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage item, badge and daily reward definitions",
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Validate a catalog file and upsert it into the database",
	Long: `Validate a catalog file and upsert it into the database. Without a
path the built-in catalog is synced. Running services pick the change up when
their catalog cache expires or is invalidated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		pool, err := database.NewPool(cmd.Context(), cfg.GetDBConnString(), int(cfg.DBMaxConns), cfg.DBMaxIdle, cfg.DBMaxLife)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := bootstrap.SyncCatalogFrom(cmd.Context(), path, postgres.NewStore(pool))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "items: %d, badges: %d, daily rewards: %d\n",
			result.ItemsUpserted, result.BadgesUpserted, result.DailyRewardsUpserted)
		return nil
	},
}
