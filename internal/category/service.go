// Package category remembers which category a user gives to a description
// and proposes it again for rows that arrive without one.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category

type Repository interface {
	// FindCategory returns the category of the longest pattern contained in
	// description, or "" when no rule applies.
	FindCategory(ctx context.Context, description string) (string, error)
	SaveRule(ctx context.Context, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Suggest returns a category for description, or "" when none is known.
func (s *Service) Suggest(ctx context.Context, description string) (string, error) {
	description = normalize(description)
	if description == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, description)
}

// Learn records that description belongs to category. Empty values and
// adjustment entries are ignored.
func (s *Service) Learn(ctx context.Context, description, category string) error {
	description = normalize(description)
	category = strings.TrimSpace(category)

	if description == "" || category == "" || category == transaction.CategoryAdjustment {
		return nil
	}

	if err := s.repo.SaveRule(ctx, description, category); err != nil {
		return fmt.Errorf("saving category rule: %w", err)
	}

	return nil
}

// Fill sets the category of every row that has none and a known rule, and
// reports how many rows it changed. Lookup failures leave the row untouched.
func (s *Service) Fill(ctx context.Context, rows []transaction.CreateParams) int {
	filled := 0

	for i := range rows {
		if strings.TrimSpace(rows[i].Category) != "" {
			continue
		}

		category, err := s.Suggest(ctx, rows[i].Description)
		if err != nil {
			slog.Warn("category lookup failed", "description", rows[i].Description, "error", err)
			continue
		}

		if category != "" {
			rows[i].Category = category
			filled++
		}
	}

	return filled
}
