// Command progression runs the progression service and its operator tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/brandish-progression/internal/bootstrap"
	"github.com/osse101/brandish-progression/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "progression",
	Short: "Player progression service",
	Long: `progression tracks experience, levels, daily streaks, badges,
inventory and currencies for players, and serves them over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and starts file plus stdout logging. The
// returned close func flushes the log file.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cfg.Version = rootCmd.Version

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, func() { _ = logFile.Close() }, nil
}
