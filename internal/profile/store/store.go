package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/profile"
)

const publicNameIndex = "user_profiles_public_name_idx"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func uniqueErr(err error) error {
	if database.ViolatedConstraint(err) == publicNameIndex {
		return profile.ErrNameTaken
	}

	return profile.ErrExists
}

func (s *Store) CreateProfile(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO user_profiles (id, public_name, email, currency, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, p.ID, p.PublicName, p.Email, p.Currency, p.Language).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return uniqueErr(err)
		}

		return fmt.Errorf("creating profile: %w", err)
	}

	return nil
}

func (s *Store) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	var p profile.Profile

	err := s.db.QueryRowContext(ctx, `
		SELECT id, public_name, email, currency, language, created_at, updated_at
		FROM user_profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.PublicName, &p.Email, &p.Currency, &p.Language, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrNotFound
		}

		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return &p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *profile.Profile) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE user_profiles
		SET public_name = $1, email = $2, currency = $3, language = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		p.PublicName, p.Email, p.Currency, p.Language, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return profile.ErrNotFound
		case database.IsUniqueViolation(err):
			return uniqueErr(err)
		}

		return fmt.Errorf("updating profile: %w", err)
	}

	return nil
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	} else if n == 0 {
		return profile.ErrNotFound
	}

	return nil
}

func (s *Store) PublicNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var taken bool

	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_profiles WHERE lower(public_name) = lower($1) AND id <> $2
		)`, name, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("checking public name: %w", err)
	}

	return taken, nil
}
