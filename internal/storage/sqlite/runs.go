package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthledger/hearthledger/internal/models"
)

// RecordRun persists the summary row for a finished import run.
// The row is written outside the run's import transaction so the history
// survives even when the run itself was rolled back.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *models.ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, file, started_at, finished_at, imported, duplicates, invalid, filtered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.StartedAt, run.FinishedAt,
		run.Imported, run.Duplicates, run.Invalid, run.Filtered,
	)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}

	return nil
}

// ListRuns returns recorded import runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]models.ImportRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, started_at, finished_at, imported, duplicates, invalid, filtered
		 FROM import_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		if err := rows.Scan(&run.ID, &run.File, &run.StartedAt, &run.FinishedAt,
			&run.Imported, &run.Duplicates, &run.Invalid, &run.Filtered); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import runs: %w", err)
	}

	return runs, nil
}
