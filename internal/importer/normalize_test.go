package importer

import (
	"testing"

	"github.com/hearthledger/hearthledger/internal/models"
)

// newTestMetadata builds run metadata without a store: Gus and Joules,
// categories Food (id 2) and Movies (id 3), General (id 1) as fallback.
func newTestMetadata() *Metadata {
	return &Metadata{
		Participants: testParticipants,
		participantIDs: map[string]int64{
			"Gus":    1,
			"Joules": 2,
		},
		categoryIDs: map[string]int64{
			models.FallbackCategory: 1,
			"Food":                  2,
			"Movies":                3,
		},
		fallbackID: 1,
	}
}

func testFields(overrides map[string]string) map[string]string {
	fields := map[string]string{
		"Date":        "2024-03-01",
		"Description": "Groceries",
		"Cost":        "40.00",
		"Category":    "Food",
		"Gus":         "20.00",
		"Joules":      "-20.00",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return fields
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(newTestMetadata())

	t.Run("well-formed row", func(t *testing.T) {
		row, filtered, err := n.Normalize(testFields(nil))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if filtered {
			t.Fatal("row unexpectedly filtered")
		}
		if row.Date != "2024-03-01" {
			t.Errorf("date = %q, want 2024-03-01", row.Date)
		}
		if row.Amount != 4000 {
			t.Errorf("amount = %d, want 4000", row.Amount)
		}
		if row.CategoryID != 2 {
			t.Errorf("category id = %d, want 2", row.CategoryID)
		}
		if row.CategoryLabel != "Food" {
			t.Errorf("category label = %q, want Food", row.CategoryLabel)
		}
		if len(row.Balances) != 2 || row.Balances[0] != 2000 || row.Balances[1] != -2000 {
			t.Errorf("balances = %v, want [2000 -2000]", row.Balances)
		}
	})

	t.Run("settlement category is filtered silently", func(t *testing.T) {
		_, filtered, err := n.Normalize(testFields(map[string]string{
			"Category":    "Payment",
			"Description": "Settle up",
			"Cost":        "100.00",
		}))
		if err != nil {
			t.Fatalf("filtered row must not error: %v", err)
		}
		if !filtered {
			t.Error("settlement row was not filtered")
		}
	})

	t.Run("footer row is filtered before coercion", func(t *testing.T) {
		// The export footer carries no parseable cost; the filter has to
		// act on the trimmed description first.
		_, filtered, err := n.Normalize(testFields(map[string]string{
			"Description": "  Total balance ",
			"Cost":        "",
		}))
		if err != nil {
			t.Fatalf("footer row must not error: %v", err)
		}
		if !filtered {
			t.Error("footer row was not filtered")
		}
	})

	t.Run("unknown category falls back to General", func(t *testing.T) {
		row, _, err := n.Normalize(testFields(map[string]string{"Category": "Skydiving"}))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if row.CategoryID != 1 {
			t.Errorf("category id = %d, want fallback 1", row.CategoryID)
		}
		if row.CategoryLabel != "Skydiving" {
			t.Errorf("category label = %q, want raw label preserved", row.CategoryLabel)
		}
	})

	t.Run("missing liability figures default to zero", func(t *testing.T) {
		row, _, err := n.Normalize(testFields(map[string]string{"Gus": "", "Joules": ""}))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if row.Balances[0] != 0 || row.Balances[1] != 0 {
			t.Errorf("balances = %v, want [0 0]", row.Balances)
		}
	})

	t.Run("alternate date layout", func(t *testing.T) {
		row, _, err := n.Normalize(testFields(map[string]string{"Date": "2024-03-01 18:30:00"}))
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if row.Date != "2024-03-01" {
			t.Errorf("date = %q, want 2024-03-01", row.Date)
		}
	})

	t.Run("coercion failures are row-level errors", func(t *testing.T) {
		cases := map[string]map[string]string{
			"unparseable cost":    {"Cost": "forty"},
			"negative cost":       {"Cost": "-40.00"},
			"unparseable date":    {"Date": "yesterday"},
			"unparseable balance": {"Gus": "lots"},
		}
		for name, overrides := range cases {
			t.Run(name, func(t *testing.T) {
				_, filtered, err := n.Normalize(testFields(overrides))
				if err == nil {
					t.Error("expected row-level error, got nil")
				}
				if filtered {
					t.Error("invalid row must not count as filtered")
				}
			})
		}
	})
}

func TestParseMinorUnitsRounding(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"40", 4000},
		{"40.00", 4000},
		{"40.005", 4001},
		{"-20.5", -2050},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := parseMinorUnits(tt.in)
		if err != nil {
			t.Errorf("parseMinorUnits(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
