package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hearthledger/hearthledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTransaction(fingerprint string) *models.Transaction {
	return &models.Transaction{
		Date:        "2024-03-01",
		Description: "Groceries",
		TotalAmount: 4000,
		PayerID:     1,
		CategoryID:  1,
		IsSplit:     true,
		Fingerprint: fingerprint,
		Shares: []models.Share{
			{UserID: 1, Amount: 2000},
			{UserID: 2, Amount: 2000},
		},
	}
}

func TestMigrationsSeedFallbackCategory(t *testing.T) {
	store := newTestStore(t)

	categories, err := store.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}

	found := false
	for _, c := range categories {
		if c.Name == models.FallbackCategory {
			found = true
			if c.ParentName != "Uncategorized" {
				t.Errorf("fallback parent = %q, want Uncategorized", c.ParentName)
			}
		}
	}
	if !found {
		t.Error("fresh database is missing the General fallback category")
	}
}

func TestSeedParticipantsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 2; i++ {
		if err := store.SeedParticipants(ctx, []string{"Gus", "Joules"}); err != nil {
			t.Fatalf("SeedParticipants failed: %v", err)
		}
	}

	participants, err := store.ListParticipants(ctx)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("got %d participants, want 2", len(participants))
	}
	if participants[0].Name != "Gus" || participants[1].Name != "Joules" {
		t.Errorf("participants out of seed order: %v", participants)
	}
}

func TestInsertTransactionIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.SeedParticipants(ctx, []string{"Gus", "Joules"}); err != nil {
		t.Fatalf("SeedParticipants failed: %v", err)
	}

	t.Run("first insert", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		defer tx.Rollback()

		inserted, err := tx.InsertTransaction(ctx, sampleTransaction("fp-1"))
		if err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
		if !inserted {
			t.Error("expected first insert to report inserted")
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	})

	t.Run("duplicate fingerprint is a no-op", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		defer tx.Rollback()

		duplicate := sampleTransaction("fp-1")
		duplicate.Description = "Groceries again" // content differs, identity does not
		inserted, err := tx.InsertTransaction(ctx, duplicate)
		if err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
		if inserted {
			t.Error("duplicate fingerprint must not insert")
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		count, err := store.CountTransactions(ctx)
		if err != nil {
			t.Fatalf("CountTransactions failed: %v", err)
		}
		if count != 1 {
			t.Errorf("got %d records, want 1 (duplicate never overwrites)", count)
		}

		// The stored record keeps the original content.
		txn, err := store.GetTransactionByFingerprint(ctx, "fp-1")
		if err != nil {
			t.Fatalf("GetTransactionByFingerprint failed: %v", err)
		}
		if txn.Description != "Groceries" {
			t.Errorf("description = %q, want original %q", txn.Description, "Groceries")
		}
	})

	t.Run("shares round-trip", func(t *testing.T) {
		txn, err := store.GetTransactionByFingerprint(ctx, "fp-1")
		if err != nil {
			t.Fatalf("GetTransactionByFingerprint failed: %v", err)
		}
		if len(txn.Shares) != 2 {
			t.Fatalf("got %d shares, want 2", len(txn.Shares))
		}
		var sum int64
		for _, s := range txn.Shares {
			sum += s.Amount
		}
		if sum != txn.TotalAmount {
			t.Errorf("shares sum to %d, want %d", sum, txn.TotalAmount)
		}
	})
}

func TestRollbackDiscardsRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.SeedParticipants(ctx, []string{"Gus", "Joules"}); err != nil {
		t.Fatalf("SeedParticipants failed: %v", err)
	}

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := tx.InsertTransaction(ctx, sampleTransaction("fp-rollback")); err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	count, err := store.CountTransactions(ctx)
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("got %d records after rollback, want 0", count)
	}
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	run := &models.ImportRun{
		File:       "data/2024-03.csv",
		StartedAt:  1700000000,
		FinishedAt: 1700000002,
		Imported:   12,
		Duplicates: 3,
		Invalid:    1,
		Filtered:   2,
	}
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected run ID to be generated")
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.File != run.File || got.Imported != 12 || got.Duplicates != 3 {
		t.Errorf("stored run = %+v, want %+v", got, run)
	}
}
