package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/brandish-progression/internal/database"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or list database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		pool, err := database.NewPool(cmd.Context(), cfg.GetDBConnString(), int(cfg.DBMaxConns), cfg.DBMaxIdle, cfg.DBMaxLife)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(cmd.Context(), pool, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", args[0])
		return nil
	},
}
