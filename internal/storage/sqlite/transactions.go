package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthledger/hearthledger/internal/models"
	"github.com/hearthledger/hearthledger/internal/storage"
)

// Ensure importTx implements storage.ImportTx
var _ storage.ImportTx = (*importTx)(nil)

// importTx wraps one sql transaction covering a whole batch run.
type importTx struct {
	tx *sql.Tx
}

// Begin starts an import transaction.
func (s *SQLiteStore) Begin(ctx context.Context) (storage.ImportTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &importTx{tx: tx}, nil
}

// InsertTransaction inserts a reconciled record and its shares, reporting
// whether the record was new. INSERT OR IGNORE against the fingerprint
// uniqueness constraint gives the idempotent-insert semantics: a duplicate
// affects zero rows and writes nothing.
func (t *importTx) InsertTransaction(ctx context.Context, txn *models.Transaction) (bool, error) {
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	res, err := t.tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO transactions
		 (date, description, total_amount, payer_id, category_id, is_split, fingerprint, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.Date, txn.Description, txn.TotalAmount, txn.PayerID,
		txn.CategoryID, boolToInt(txn.IsSplit), txn.Fingerprint, txn.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Fingerprint already present: duplicate import, not an error.
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to read transaction id: %w", err)
	}
	txn.ID = id

	for _, share := range txn.Shares {
		if _, err := t.tx.ExecContext(ctx,
			"INSERT INTO transaction_shares (transaction_id, user_id, amount) VALUES (?, ?, ?)",
			txn.ID, share.UserID, share.Amount,
		); err != nil {
			return false, fmt.Errorf("failed to insert share: %w", err)
		}
	}

	return true, nil
}

// Commit makes the run's inserts durable.
func (t *importTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Rollback discards the run's inserts. Calling it after Commit is a no-op.
func (t *importTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to roll back import: %w", err)
	}
	return nil
}

// GetTransactionByFingerprint retrieves a committed record with its shares.
func (s *SQLiteStore) GetTransactionByFingerprint(ctx context.Context, fingerprint string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var isSplit int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, description, total_amount, payer_id, category_id, is_split, fingerprint, created_at
		 FROM transactions WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&txn.ID, &txn.Date, &txn.Description, &txn.TotalAmount,
		&txn.PayerID, &txn.CategoryID, &isSplit, &txn.Fingerprint, &txn.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found: %s", fingerprint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	txn.IsSplit = isSplit != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount FROM transaction_shares WHERE transaction_id = ? ORDER BY user_id",
		txn.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.UserID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		txn.Shares = append(txn.Shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return txn, nil
}

// CountTransactions returns the number of committed ledger records.
func (s *SQLiteStore) CountTransactions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
