package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd shows the recorded import-run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent import runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		exitOnError(err, "failed to load configuration")

		store, err := openStore(ctx, cfg)
		exitOnError(err, "failed to open ledger database")
		defer store.Close()

		runs, err := store.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no import runs recorded")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %-40s imported %d, duplicates %d, invalid %d, filtered %d\n",
				time.Unix(run.StartedAt, 0).Format("2006-01-02 15:04"),
				run.File, run.Imported, run.Duplicates, run.Invalid, run.Filtered)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to show")
}
