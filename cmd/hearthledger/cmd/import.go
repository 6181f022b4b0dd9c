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

// importCmd imports a single export file.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import one expense-sharing export file",
	Long: `Import one CSV export into the ledger.

Settlement transfers and report footers are dropped, malformed rows are
skipped and counted, and rows already imported (same fingerprint) are
counted as duplicates. The command fails only when the file is unreadable
or the database is unreachable.`,
	Args: cobra.ExactArgs(1),
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
		summary, err := runner.ImportFile(ctx, args[0])
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	},
}

func printSummary(s importer.Summary) {
	fmt.Printf("imported %d, duplicates %d, invalid %d, filtered %d in %s\n",
		s.Imported, s.Duplicates, s.Invalid, s.Filtered, s.Elapsed.Round(time.Millisecond))
}
