package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/brandish-progression/internal/bootstrap"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/progression"
)

func init() {
	playerCmd.AddCommand(playerProgressCmd, playerReconcileCmd)
	rootCmd.AddCommand(playerCmd)
}

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Inspect and repair a player's progression",
}

// playerSummary is what `player progress` prints
type playerSummary struct {
	Progress *domain.PlayerProgress `json:"progress"`
	Daily    *domain.DailyStatus    `json:"daily"`
	Wallet   *domain.Wallet         `json:"wallet"`
	Titles   []string               `json:"titles"`
	Badges   []domain.PlayerBadge   `json:"badges"`
}

var playerProgressCmd = &cobra.Command{
	Use:   "progress <player-id>",
	Short: "Print level, experience, streak, wallet and badges as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, engine progression.Engine) error {
			id := args[0]
			var (
				s   playerSummary
				err error
			)
			if s.Progress, err = engine.GetProgress(ctx, id); err != nil {
				return err
			}
			if s.Daily, err = engine.GetDailyStatus(ctx, id); err != nil {
				return err
			}
			if s.Wallet, err = engine.GetWallet(ctx, id); err != nil {
				return err
			}
			if s.Titles, err = engine.ListTitles(ctx, id); err != nil {
				return err
			}
			if s.Badges, err = engine.ListPlayerBadges(ctx, id); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		})
	},
}

var playerReconcileCmd = &cobra.Command{
	Use:   "reconcile <player-id>",
	Short: "Re-apply level rewards missing from the player's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, engine progression.Engine) error {
			n, err := engine.ReconcileLevelRewards(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reapplied %d level rewards\n", n)
			return nil
		})
	},
}

// withEngine opens the database and runs fn against an engine that shares the
// service's player locks when Redis is configured. Nothing is published.
func withEngine(ctx context.Context, fn func(context.Context, progression.Engine) error) error {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	store, pool, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := bootstrap.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	engine, _, err := bootstrap.BuildEngine(bootstrap.EngineDependencies{
		Config: cfg,
		Store:  store,
		Locker: bootstrap.NewLocker(cfg, redisClient),
	})
	if err != nil {
		return err
	}
	return fn(ctx, engine)
}
