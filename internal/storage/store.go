// Package storage provides abstractions for the persisted ledger store.
package storage

import (
	"context"

	"github.com/hearthledger/hearthledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the importer.
type Store interface {
	// ListParticipants returns all participants ordered by ID. The order is
	// load-bearing: it defines the default payer used when reconciliation
	// cannot identify one.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Begin starts an import transaction. All inserts of one run go through
	// a single ImportTx and become durable together on Commit.
	Begin(ctx context.Context) (ImportTx, error)

	// RecordRun persists the summary row for a finished import run.
	RecordRun(ctx context.Context, run *models.ImportRun) error

	// Close releases any resources held by the store.
	Close() error
}

// ImportTx is the write half of one batch run. The fingerprint uniqueness
// constraint lives in the schema, so even a run that fails between inserts
// and is retried can never produce duplicate records.
type ImportTx interface {
	// InsertTransaction inserts a reconciled record and its shares.
	// It reports false, nil when a record with the same fingerprint already
	// exists; the duplicate is never merged or overwritten.
	InsertTransaction(ctx context.Context, tx *models.Transaction) (inserted bool, err error)

	// Commit makes every insert of this run durable.
	Commit() error

	// Rollback discards the run's inserts. Safe to call after Commit.
	Rollback() error
}
