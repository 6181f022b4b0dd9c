package models

// Participant is a household member who can pay for or owe part of an
// expense. Participants are administered out-of-band by the collaborator
// CRUD surface and are read-only inputs to the importer.
type Participant struct {
	ID   int64
	Name string
}

// Category classifies ledger records for collaborator reporting.
type Category struct {
	ID int64

	// Name is the display name matched against the export's category label.
	Name string

	// ParentName is an optional coarse grouping used by reporting
	// (e.g. "Food & Drink" for "Groceries").
	ParentName string
}

// FallbackCategory is the category name every store must carry; rows whose
// export label resolves to nothing are filed under it.
const FallbackCategory = "General"
