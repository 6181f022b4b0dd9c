package importer

import (
	"context"
	"fmt"

	"github.com/hearthledger/hearthledger/internal/models"
	"github.com/hearthledger/hearthledger/internal/storage"
)

// Metadata holds the participant and category mappings resolved once per
// batch run. It is read-only shared state for every row of the run.
type Metadata struct {
	// Participants in store order. The first participant is the default
	// payer used when reconciliation cannot identify one.
	Participants []models.Participant

	participantIDs map[string]int64
	categoryIDs    map[string]int64
	fallbackID     int64
}

// LoadMetadata resolves participants and categories against the store.
// An unreachable store, an empty participant set or a missing fallback
// category all fail the whole run before any row is processed.
func LoadMetadata(ctx context.Context, store storage.Store) (*Metadata, error) {
	participants, err := store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("no participants configured in store")
	}

	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	meta := &Metadata{
		Participants:   participants,
		participantIDs: make(map[string]int64, len(participants)),
		categoryIDs:    make(map[string]int64, len(categories)),
		fallbackID:     -1,
	}
	for _, p := range participants {
		meta.participantIDs[p.Name] = p.ID
	}
	for _, c := range categories {
		meta.categoryIDs[c.Name] = c.ID
		if c.Name == models.FallbackCategory {
			meta.fallbackID = c.ID
		}
	}
	if meta.fallbackID < 0 {
		return nil, fmt.Errorf("fallback category %q missing from store", models.FallbackCategory)
	}

	return meta, nil
}

// participantID resolves a participant display name.
func (m *Metadata) participantID(name string) (int64, bool) {
	id, ok := m.participantIDs[name]
	return id, ok
}

// CategoryID resolves an export category label, falling back to the General
// category for labels the store does not know.
func (m *Metadata) CategoryID(label string) int64 {
	if id, ok := m.categoryIDs[label]; ok {
		return id
	}
	return m.fallbackID
}

// DefaultPayer returns the participant attributed whole rows whose payer
// cannot be reconciled.
func (m *Metadata) DefaultPayer() models.Participant {
	return m.Participants[0]
}
