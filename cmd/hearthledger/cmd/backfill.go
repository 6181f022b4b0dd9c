package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthledger/hearthledger/internal/importer"
	"github.com/hearthledger/hearthledger/internal/metrics"
)

var (
	backfillFrom string
	backfillTo   string
)

// backfillCmd inserts the configured monthly baseline costs for a month range.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Insert monthly historical-baseline records",
	Long: `Insert one record per configured baseline cost (rent, utilities, ...)
for every month in the given range, dated the first of the month and
attributed wholly to the default payer.

Baseline records carry the same content fingerprint as imported rows, so
the command is re-runnable: months already backfilled are counted as
duplicates and never inserted twice.

Example:
  hearthledger backfill --from 2024-01 --to 2025-12`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		from, err := time.Parse("2006-01", backfillFrom)
		if err != nil {
			return fmt.Errorf("invalid --from month %q: %w", backfillFrom, err)
		}
		to, err := time.Parse("2006-01", backfillTo)
		if err != nil {
			return fmt.Errorf("invalid --to month %q: %w", backfillTo, err)
		}

		cfg, err := loadConfig()
		exitOnError(err, "failed to load configuration")

		store, err := openStore(ctx, cfg)
		exitOnError(err, "failed to open ledger database")
		defer store.Close()

		m := metrics.New()
		serveMetrics(m)

		runner := importer.NewRunner(store, cfg.Convention(), slog.Default(), m)
		summary, err := runner.Backfill(ctx, cfg.Baseline, from, to)
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillFrom, "from", "", "first month (YYYY-MM) (required)")
	backfillCmd.Flags().StringVar(&backfillTo, "to", "", "last month (YYYY-MM) (required)")
	backfillCmd.MarkFlagRequired("from")
	backfillCmd.MarkFlagRequired("to")
}
