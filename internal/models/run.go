package models

// ImportRun records the outcome of one batch import for later inspection.
// A row is written when the run finishes, whether or not any records were
// inserted, so "nothing new" stays distinguishable from "never ran".
type ImportRun struct {
	// ID is a UUID assigned when the run starts.
	ID string

	// File is the path of the imported export file.
	File string

	StartedAt  int64
	FinishedAt int64

	// Imported counts newly inserted records.
	Imported int

	// Duplicates counts rows whose fingerprint was already present.
	Duplicates int

	// Invalid counts rows rejected by normalization (bad amount or date).
	Invalid int

	// Filtered counts rows dropped by the admission filter (settlement
	// transfers and report footers). Not errors.
	Filtered int
}
