package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Fingerprint derives the content-addressed identity of a normalized row.
// Two rows with identical (date, description, amount, category label)
// collide on purpose: that collision is the duplicate-detection mechanism
// across repeated imports. The pre-resolution category label is hashed, not
// the resolved id, so fingerprints stay stable when categories are renamed.
func Fingerprint(date, description string, amount int64, categoryLabel string) string {
	combined := strings.Join([]string{
		date,
		description,
		decimal.New(amount, -2).StringFixed(2),
		categoryLabel,
	}, "|")
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// RowFingerprint is the Fingerprint of a normalized row.
func RowFingerprint(row *Row) string {
	return Fingerprint(row.Date, row.Description, row.Amount, row.CategoryLabel)
}
