package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/hearthledger/hearthledger/internal/models"
)

// BaselineEntry is one recurring monthly cost backfilled into the ledger for
// months that predate the export history: rent, utilities, transit passes.
type BaselineEntry struct {
	// Category is the export-style label; unknown labels fall back to
	// General like any imported row.
	Category string

	// Amount is the monthly cost as a decimal string, e.g. "600.00".
	Amount string

	// Description overrides the generated "Historical Baseline - <Category>"
	// label when set.
	Description string
}

// Backfill inserts one baseline record per entry for every month from `from`
// through `to` inclusive, dated the first of the month. Records go through
// the same fingerprinting, assembly and idempotent-insert contract as
// imported rows, so backfilling is re-runnable: months already present are
// counted as duplicates and left untouched.
//
// The whole amount is attributed to the default payer with no split; the
// baseline predates the expense-sharing history, so there are no liability
// figures to reconcile.
func (r *Runner) Backfill(ctx context.Context, entries []BaselineEntry, from, to time.Time) (Summary, error) {
	start := time.Now()

	if len(entries) == 0 {
		return Summary{}, fmt.Errorf("no baseline entries configured")
	}
	if from.After(to) {
		return Summary{}, fmt.Errorf("backfill range starts after it ends")
	}

	// Entries come from configuration, not from an untrusted export, so a
	// bad amount is a configuration error and fails the run before any
	// insert.
	amounts := make([]int64, len(entries))
	for i, entry := range entries {
		amount, err := parseAmount(entry.Amount)
		if err != nil {
			return Summary{}, fmt.Errorf("baseline entry %q: %w", entry.Category, err)
		}
		amounts[i] = amount
	}

	meta, err := LoadMetadata(ctx, r.store)
	if err != nil {
		return Summary{}, err
	}

	tx, err := r.store.Begin(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer tx.Rollback()

	var summary Summary
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		for i, entry := range entries {
			description := entry.Description
			if description == "" {
				description = "Historical Baseline - " + entry.Category
			}

			row := &Row{
				Date:          month.Format("2006-01-02"),
				Description:   description,
				Amount:        amounts[i],
				CategoryLabel: entry.Category,
				CategoryID:    meta.CategoryID(entry.Category),
			}

			inserted, err := tx.InsertTransaction(ctx, BuildTransaction(row, baselineReconciliation(meta, amounts[i])))
			if err != nil {
				return Summary{}, err
			}
			if inserted {
				summary.Imported++
				r.metrics.RowsImported.Inc()
			} else {
				summary.Duplicates++
				r.metrics.RowsDuplicate.Inc()
				r.log.Debug("baseline month already present", "date", row.Date, "description", description)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, err
	}

	summary.Elapsed = time.Since(start)
	r.recordRun(ctx,
		fmt.Sprintf("backfill %s..%s", first.Format("2006-01"), last.Format("2006-01")),
		start, summary)
	r.log.Info("backfill finished",
		"from", first.Format("2006-01"),
		"to", last.Format("2006-01"),
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"elapsed", summary.Elapsed,
	)

	return summary, nil
}

// baselineReconciliation attributes a whole baseline amount to the default
// payer, zeros for everyone else.
func baselineReconciliation(meta *Metadata, amount int64) *Reconciliation {
	shares := make([]models.Share, len(meta.Participants))
	for i, p := range meta.Participants {
		shares[i] = models.Share{UserID: p.ID}
	}
	shares[0].Amount = amount

	return &Reconciliation{
		PayerID: meta.DefaultPayer().ID,
		Shares:  shares,
		IsSplit: false,
	}
}
