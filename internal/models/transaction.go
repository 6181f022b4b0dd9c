package models

// Transaction represents one reconciled ledger record.
// It is the unit persisted by the batch importer and by the collaborator
// manual-entry path, which must go through the same fingerprinting and
// reconciliation code to stay consistent.
type Transaction struct {
	// ID is assigned by the store on insert.
	ID int64

	// Date is the canonical calendar day in YYYY-MM-DD form, no time component.
	Date string

	// Description is the free-text label from the export.
	Description string

	// TotalAmount is the full cost of the expense in minor units.
	TotalAmount int64

	// PayerID references the participant who fronted the full cost.
	PayerID int64

	// CategoryID references the resolved category, falling back to the
	// General category when the export label is unknown.
	CategoryID int64

	// Shares holds each participant's liability. Shares sum exactly to
	// TotalAmount.
	Shares []Share

	// IsSplit is true iff more than one participant has a non-zero share.
	IsSplit bool

	// Fingerprint is the deterministic content-derived identity used for
	// duplicate detection across repeated imports. Unique in the store.
	Fingerprint string

	// CreatedAt is the Unix timestamp when the record was inserted.
	CreatedAt int64
}

// Share is the portion of a transaction attributed to one participant.
type Share struct {
	UserID int64
	Amount int64
}
