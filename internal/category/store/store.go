package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCategory(ctx context.Context, description string) (string, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE $1 LIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, updated_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, description).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category rule: %w", err)
	}

	return category, nil
}

func (s *Store) SaveRule(ctx context.Context, pattern, category string) error {
	query := `
		INSERT INTO category_rules (pattern, category, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (pattern) DO UPDATE
		SET category = EXCLUDED.category, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, pattern, category); err != nil {
		return fmt.Errorf("saving category rule: %w", err)
	}

	return nil
}
