package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hearthledger/hearthledger/internal/importer"
	"github.com/hearthledger/hearthledger/internal/metrics"
)

// scanCmd imports every export file in the configured data directory.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Import every CSV export in the data directory",
	Long: `Glob the configured data directory for *.csv exports and import each
in turn, summing counters across files. A file that fails does not stop
the scan; its error is reported at the end.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		exitOnError(err, "failed to load configuration")

		store, err := openStore(ctx, cfg)
		exitOnError(err, "failed to open ledger database")
		defer store.Close()

		m := metrics.New()
		serveMetrics(m)

		runner := importer.NewRunner(store, cfg.Convention(), slog.Default(), m)
		summary, err := runner.ImportDir(ctx, cfg.DataDir)

		printSummary(summary)
		return err
	},
}
