package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reserved values of the export format. A row carrying either is an artifact
// of the export (a balance-settling transfer or the running-total footer),
// not an expense, and is dropped without counting as an error.
const (
	settlementCategory = "Payment"
	footerDescription  = "Total balance"
)

// dateLayouts are the date representations observed in export snapshots,
// tried in order. The slash-separated short form is read as US month/day,
// matching the en_US exports this importer consumes; a day-first export
// would need its own layout here, not a reordering of this one.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// Row is one normalized export row, ready for fingerprinting and
// reconciliation.
type Row struct {
	// Date is the canonical YYYY-MM-DD calendar day.
	Date string

	Description string

	// Amount is the total cost in minor units, never negative.
	Amount int64

	// CategoryLabel is the raw export label. Fingerprints are computed over
	// this pre-resolution label so they survive category renames.
	CategoryLabel string

	// CategoryID is the resolved category, already defaulted to the
	// fallback for unknown labels.
	CategoryID int64

	// Balances holds one liability figure per participant, in minor units,
	// ordered like Metadata.Participants. Missing columns read as zero.
	Balances []int64
}

// Normalizer parses raw export records into typed rows using the run's
// metadata for dynamic participant-column and category lookup.
type Normalizer struct {
	meta *Metadata
}

// NewNormalizer returns a Normalizer bound to the run's metadata.
func NewNormalizer(meta *Metadata) *Normalizer {
	return &Normalizer{meta: meta}
}

// Normalize converts one raw record (header name to cell value) into a Row.
// It reports filtered=true for rows dropped by the admission filter; any
// returned error is row-level and must not abort the batch.
func (n *Normalizer) Normalize(fields map[string]string) (row *Row, filtered bool, err error) {
	description := strings.TrimSpace(fields["Description"])
	categoryLabel := strings.TrimSpace(fields["Category"])

	if categoryLabel == settlementCategory || description == footerDescription {
		return nil, true, nil
	}

	amount, err := parseAmount(fields["Cost"])
	if err != nil {
		return nil, false, err
	}

	date, err := parseDate(fields["Date"])
	if err != nil {
		return nil, false, err
	}

	balances := make([]int64, len(n.meta.Participants))
	for i, p := range n.meta.Participants {
		cell := strings.TrimSpace(fields[p.Name])
		if cell == "" {
			// Missing liability figures default to zero.
			continue
		}
		balances[i], err = parseMinorUnits(cell)
		if err != nil {
			return nil, false, fmt.Errorf("liability column %q: %w", p.Name, err)
		}
	}

	return &Row{
		Date:          date,
		Description:   description,
		Amount:        amount,
		CategoryLabel: categoryLabel,
		CategoryID:    n.meta.CategoryID(categoryLabel),
		Balances:      balances,
	}, false, nil
}

// parseAmount parses the Cost column into non-negative minor units.
func parseAmount(s string) (int64, error) {
	cents, err := parseMinorUnits(s)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, fmt.Errorf("negative amount %q", strings.TrimSpace(s))
	}
	return cents, nil
}

// parseMinorUnits parses a decimal string into minor units, rounding half
// away from zero at the cent boundary.
func parseMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", strings.TrimSpace(s))
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// parseDate parses the export's date representation into YYYY-MM-DD.
func parseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unparseable date %q", s)
}
