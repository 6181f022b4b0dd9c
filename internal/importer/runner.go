// Package importer implements the transaction ingestion and reconciliation
// engine: it turns an expense-sharing export file into deduplicated ledger
// records with computed per-participant shares.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hearthledger/hearthledger/internal/metrics"
	"github.com/hearthledger/hearthledger/internal/models"
	"github.com/hearthledger/hearthledger/internal/storage"
)

// requiredColumns must all appear in the export header. Participant columns
// are resolved dynamically from the metadata instead.
var requiredColumns = []string{"Date", "Description", "Cost", "Category"}

// Summary reports the outcome of one run (or the sum over a directory scan).
type Summary struct {
	// Imported counts newly inserted records.
	Imported int

	// Duplicates counts rows whose fingerprint was already in the store.
	// Kept separate from Invalid so "nothing new" is distinguishable from
	// "something is wrong with the file".
	Duplicates int

	// Invalid counts rows rejected by normalization.
	Invalid int

	// Filtered counts rows dropped by the admission filter.
	Filtered int

	Elapsed time.Duration
}

// Add accumulates another summary into this one.
func (s *Summary) Add(other Summary) {
	s.Imported += other.Imported
	s.Duplicates += other.Duplicates
	s.Invalid += other.Invalid
	s.Filtered += other.Filtered
	s.Elapsed += other.Elapsed
}

// Runner orchestrates batch imports. Its dependencies are explicit: the
// store handle, the logger and the metrics counters are passed in rather
// than reached for globally, so every exit path can release what it opened.
type Runner struct {
	store      storage.Store
	convention Convention
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewRunner returns a Runner writing to store under the given
// liability-column convention.
func NewRunner(store storage.Store, convention Convention, log *slog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{store: store, convention: convention, log: log, metrics: m}
}

// ImportFile imports one export file. Only a missing or unreadable file, an
// unusable header, or a store failure is fatal; every per-row failure is
// absorbed at the row boundary and counted. All inserts happen in one store
// transaction committed at the end; the fingerprint uniqueness constraint in
// the schema keeps even interrupted runs re-runnable.
func (r *Runner) ImportFile(ctx context.Context, path string) (Summary, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read export header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return Summary{}, err
	}

	meta, err := LoadMetadata(ctx, r.store)
	if err != nil {
		return Summary{}, err
	}
	normalizer := NewNormalizer(meta)
	reconciler := NewReconciler(r.convention, meta.Participants)

	tx, err := r.store.Begin(ctx)
	if err != nil {
		return Summary{}, err
	}
	defer tx.Rollback()

	var summary Summary
	index := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		index++
		if err != nil {
			summary.Invalid++
			r.metrics.RowsInvalid.Inc()
			r.log.Warn("malformed record", "row", index, "error", err)
			continue
		}

		fields := mapFields(header, record)
		row, filtered, err := normalizer.Normalize(fields)
		if filtered {
			summary.Filtered++
			r.metrics.RowsFiltered.Inc()
			r.log.Debug("filtered row",
				"row", index,
				"description", fields["Description"],
				"category", fields["Category"],
			)
			continue
		}
		if err != nil {
			summary.Invalid++
			r.metrics.RowsInvalid.Inc()
			r.log.Warn("rejected row",
				"row", index,
				"description", fields["Description"],
				"error", err,
			)
			continue
		}

		recon, err := reconciler.Reconcile(row.Amount, row.Balances)
		if err != nil {
			summary.Invalid++
			r.metrics.RowsInvalid.Inc()
			r.log.Warn("unreconcilable row", "row", index, "description", row.Description, "error", err)
			continue
		}
		if recon.Ambiguous {
			r.log.Warn("ambiguous payer, attributed to default payer",
				"row", index,
				"description", row.Description,
				"payer", meta.DefaultPayer().Name,
			)
		}

		inserted, err := tx.InsertTransaction(ctx, BuildTransaction(row, recon))
		if err != nil {
			// A failing insert means the store itself is broken; the whole
			// run aborts and the deferred rollback discards its inserts.
			return Summary{}, err
		}
		if inserted {
			summary.Imported++
			r.metrics.RowsImported.Inc()
		} else {
			summary.Duplicates++
			r.metrics.RowsDuplicate.Inc()
			r.log.Debug("duplicate row", "row", index, "description", row.Description)
		}
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, err
	}

	summary.Elapsed = time.Since(start)
	r.recordRun(ctx, path, start, summary)
	r.log.Info("import finished",
		"file", path,
		"imported", summary.Imported,
		"duplicates", summary.Duplicates,
		"invalid", summary.Invalid,
		"filtered", summary.Filtered,
		"elapsed", summary.Elapsed,
	)

	return summary, nil
}

// ImportDir imports every CSV file in dir, summing counters across files.
// A file that fails fatally does not stop the scan; its error is joined
// into the returned error alongside the combined summary of the files that
// did run.
func (r *Runner) ImportDir(ctx context.Context, dir string) (Summary, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to scan data directory: %w", err)
	}
	if len(paths) == 0 {
		r.log.Warn("no export files found", "dir", dir)
		return Summary{}, nil
	}

	var total Summary
	var errs []error
	for _, path := range paths {
		summary, err := r.ImportFile(ctx, path)
		if err != nil {
			r.log.Error("import failed", "file", path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		total.Add(summary)
	}

	return total, errors.Join(errs...)
}

// BuildTransaction assembles the persistable record from a normalized row
// and its reconciliation. The collaborator manual-entry path goes through
// this same function (and Fingerprint, and Reconciler) so manually entered
// records dedup and split identically to imported ones.
func BuildTransaction(row *Row, recon *Reconciliation) *models.Transaction {
	return &models.Transaction{
		Date:        row.Date,
		Description: row.Description,
		TotalAmount: row.Amount,
		PayerID:     recon.PayerID,
		CategoryID:  row.CategoryID,
		Shares:      recon.Shares,
		IsSplit:     recon.IsSplit,
		Fingerprint: RowFingerprint(row),
	}
}

// recordRun persists the run-history row. History is best-effort: a failure
// here is logged but does not fail a run whose records already committed.
func (r *Runner) recordRun(ctx context.Context, path string, start time.Time, summary Summary) {
	run := &models.ImportRun{
		File:       path,
		StartedAt:  start.Unix(),
		FinishedAt: time.Now().Unix(),
		Imported:   summary.Imported,
		Duplicates: summary.Duplicates,
		Invalid:    summary.Invalid,
		Filtered:   summary.Filtered,
	}
	if err := r.store.RecordRun(ctx, run); err != nil {
		r.log.Error("failed to record import run", "file", path, "error", err)
	}
}

// checkHeader verifies the export carries every required column.
func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[trimmedHeader(name)] = true
	}
	for _, name := range requiredColumns {
		if !present[name] {
			return fmt.Errorf("export header missing required column %q", name)
		}
	}
	return nil
}

// mapFields zips a record with the header. Short records leave trailing
// columns absent, which downstream code reads as empty cells.
func mapFields(header, record []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		fields[trimmedHeader(name)] = record[i]
	}
	return fields
}

func trimmedHeader(name string) string {
	// Exports occasionally carry a UTF-8 BOM on the first header cell.
	return strings.TrimPrefix(strings.TrimSpace(name), "\xef\xbb\xbf")
}
