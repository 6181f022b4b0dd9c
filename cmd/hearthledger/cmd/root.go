// Package cmd provides the CLI commands for the household ledger importer.
package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearthledger/hearthledger/internal/config"
	"github.com/hearthledger/hearthledger/internal/metrics"
	"github.com/hearthledger/hearthledger/internal/storage/sqlite"
	"github.com/hearthledger/hearthledger/pkg/logging"
)

var (
	cfgFile     string
	debug       bool
	metricsAddr string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hearthledger",
	Short: "Import expense-sharing exports into the household ledger",
	Long: `hearthledger ingests expense-sharing CSV exports into the household
ledger database. For every row it reconciles who paid and how the cost is
split, derives a content fingerprint, and performs an idempotent insert, so
re-importing the same export never creates duplicate records.

Example:
  hearthledger import data/2024-export.csv
  hearthledger scan
  hearthledger runs`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logging.SetupWithLevel(slog.LevelDebug)
		} else {
			logging.Setup()
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(runsCmd)
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore opens the ledger database and seeds configured participants
// into a fresh one.
func openStore(ctx context.Context, cfg *config.Config) (*sqlite.SQLiteStore, error) {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if len(cfg.Participants) > 0 {
		if err := store.SeedParticipants(ctx, cfg.Participants); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// serveMetrics exposes the counters over HTTP when --metrics-addr is set.
func serveMetrics(m *metrics.Metrics) {
	if metricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		slog.Info("metrics listening", "address", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			slog.Error("metrics server failed", "error", err)
		}
	}()
}

// exitOnError logs the error and exits. Used only where cobra's own error
// propagation would lose the structured context.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		os.Exit(1)
	}
}
