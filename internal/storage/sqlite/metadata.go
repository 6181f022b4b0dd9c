package sqlite

import (
	"context"
	"fmt"

	"github.com/hearthledger/hearthledger/internal/models"
)

// ListParticipants returns all participants ordered by ID.
func (s *SQLiteStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// ListCategories returns all categories.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, parent_name FROM categories ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentName); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// SeedParticipants inserts participants that do not exist yet, by name.
// Participant administration belongs to the collaborator surface; this exists
// so a fresh database can be bootstrapped from configuration and for tests.
func (s *SQLiteStore) SeedParticipants(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO users (name) VALUES (?)", name,
		); err != nil {
			return fmt.Errorf("failed to seed participant %q: %w", name, err)
		}
	}
	return nil
}

// SeedCategories inserts categories that do not exist yet, by name.
func (s *SQLiteStore) SeedCategories(ctx context.Context, categories []models.Category) error {
	for _, c := range categories {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO categories (name, parent_name) VALUES (?, ?)",
			c.Name, c.ParentName,
		); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	return nil
}
