package importer

import (
	"fmt"

	"github.com/hearthledger/hearthledger/internal/models"
)

// Convention selects how the per-participant liability columns of the export
// are interpreted. Different snapshots of the export format disagree, so the
// interpretation is explicit and configurable rather than guessed per row.
type Convention string

const (
	// ConventionBalance is the canonical interpretation: each column holds
	// the participant's signed balance delta for the row. Positive means
	// they paid more than their own share (so they are the payer), negative
	// means they owe.
	ConventionBalance Convention = "balance"

	// ConventionShare interprets each column as the raw non-negative share
	// the participant owes. The payer is not recoverable from the columns
	// and defaults to the first participant in store order.
	ConventionShare Convention = "share"
)

// Reconciliation is the outcome of reconciling one row's total against its
// liability figures.
type Reconciliation struct {
	PayerID int64

	// Shares holds one entry per participant, zeros included, summing
	// exactly to the row total.
	Shares []models.Share

	// IsSplit is true iff more than one participant has a non-zero share.
	IsSplit bool

	// Ambiguous marks rows whose figures were malformed (no single payer,
	// or shares that do not cover the total). The deterministic fallback
	// was applied: the whole amount attributed to the default payer. Such
	// rows are still imported but surfaced as a warning.
	Ambiguous bool
}

// Reconciler computes who paid and how a cost is split.
type Reconciler struct {
	convention   Convention
	participants []models.Participant
}

// NewReconciler returns a Reconciler for the given convention and ordered
// participant list.
func NewReconciler(convention Convention, participants []models.Participant) *Reconciler {
	return &Reconciler{convention: convention, participants: participants}
}

// Reconcile computes the payer and per-participant shares for one row.
// balances must be ordered like the participant list. Malformed figures
// never produce an error: the row falls back deterministically and is
// flagged Ambiguous instead, so one bad row cannot abort a batch.
func (r *Reconciler) Reconcile(total int64, balances []int64) (*Reconciliation, error) {
	if len(balances) != len(r.participants) {
		return nil, fmt.Errorf("got %d liability figures for %d participants",
			len(balances), len(r.participants))
	}

	switch r.convention {
	case ConventionShare:
		return r.reconcileShares(total, balances), nil
	default:
		return r.reconcileBalances(total, balances), nil
	}
}

// reconcileBalances implements the canonical signed balance-delta
// convention: the payer is the unique participant with a positive figure,
// and each share is the absolute difference between what the participant
// paid (the total for the payer, zero otherwise) and their figure.
func (r *Reconciler) reconcileBalances(total int64, balances []int64) *Reconciliation {
	payerIdx := -1
	positives := 0
	for i, b := range balances {
		if b > 0 {
			positives++
			payerIdx = i
		}
	}
	if positives != 1 {
		return r.fallback(total)
	}

	shares := make([]models.Share, len(r.participants))
	var sum int64
	for i, p := range r.participants {
		var paid int64
		if i == payerIdx {
			paid = total
		}
		amount := paid - balances[i]
		if amount < 0 {
			amount = -amount
		}
		shares[i] = models.Share{UserID: p.ID, Amount: amount}
		sum += amount
	}
	if sum != total {
		// Figures do not reconcile against the total; the row is malformed.
		return r.fallback(total)
	}

	return &Reconciliation{
		PayerID: r.participants[payerIdx].ID,
		Shares:  shares,
		IsSplit: countPositive(shares) > 1,
	}
}

// reconcileShares implements the raw owed-share convention: the figures are
// the shares.
func (r *Reconciler) reconcileShares(total int64, balances []int64) *Reconciliation {
	shares := make([]models.Share, len(r.participants))
	var sum int64
	for i, p := range r.participants {
		if balances[i] < 0 {
			return r.fallback(total)
		}
		shares[i] = models.Share{UserID: p.ID, Amount: balances[i]}
		sum += balances[i]
	}
	if sum != total {
		return r.fallback(total)
	}

	return &Reconciliation{
		PayerID: r.participants[0].ID,
		Shares:  shares,
		IsSplit: countPositive(shares) > 1,
	}
}

// fallback attributes the whole total to the default payer with no split.
func (r *Reconciler) fallback(total int64) *Reconciliation {
	shares := make([]models.Share, len(r.participants))
	for i, p := range r.participants {
		shares[i] = models.Share{UserID: p.ID}
	}
	shares[0].Amount = total

	return &Reconciliation{
		PayerID:   r.participants[0].ID,
		Shares:    shares,
		IsSplit:   false,
		Ambiguous: true,
	}
}

func countPositive(shares []models.Share) int {
	n := 0
	for _, s := range shares {
		if s.Amount > 0 {
			n++
		}
	}
	return n
}
