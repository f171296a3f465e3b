package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/group"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectMemberColumns = `m.id, m.group_id, m.name, m.email, m.opening_balance, m.joined_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(s scanner) (*group.Member, error) {
	var m group.Member
	if err := s.Scan(&m.ID, &m.GroupID, &m.Name, &m.Email, &m.OpeningBalance, &m.JoinedAt); err != nil {
		return nil, err
	}

	return &m, nil
}

// InsertMember adds a member row. It is shared with the invite store, which
// adds members as part of a redemption.
func InsertMember(ctx context.Context, q database.Querier, m *group.Member) error {
	query := `
		INSERT INTO group_members (group_id, name, email, opening_balance, joined_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, joined_at
	`

	err := q.QueryRowContext(ctx, query, m.GroupID, m.Name, m.Email, m.OpeningBalance).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return group.ErrDuplicateMember
		case database.IsForeignKeyViolation(err):
			return group.ErrNotFound
		}

		return fmt.Errorf("creating group member: %w", err)
	}

	return nil
}

// ListMembers returns the members of a group ordered by join time.
func ListMembers(ctx context.Context, q database.Querier, groupID uuid.UUID) ([]group.Member, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+selectMemberColumns+`
		FROM group_members m
		WHERE m.group_id = $1
		ORDER BY m.joined_at, m.id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer rows.Close()

	var members []group.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}

		members = append(members, *m)
	}

	return members, rows.Err()
}

func (s *Store) CreateGroup(ctx context.Context, g *group.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create group: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		g.Name, g.Description,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	for i := range g.Members {
		g.Members[i].GroupID = g.ID
		if err := InsertMember(ctx, tx, &g.Members[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create group: %w", err)
	}

	return nil
}

func (s *Store) GetGroup(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	var g group.Group

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	g.Members, err = ListMembers(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	g.MemberCount = len(g.Members)

	return &g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]*group.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM groups ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []*group.Group

	byID := make(map[uuid.UUID]*group.Group)

	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}

		groups = append(groups, &g)
		byID[g.ID] = &g
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	mrows, err := s.db.QueryContext(ctx, `SELECT `+selectMemberColumns+`
		FROM group_members m
		ORDER BY m.joined_at, m.id`)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		m, err := scanMember(mrows)
		if err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}

		if g, ok := byID[m.GroupID]; ok {
			g.Members = append(g.Members, *m)
			g.MemberCount++
		}
	}

	return groups, mrows.Err()
}

func (s *Store) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	} else if n == 0 {
		return group.ErrNotFound
	}

	return nil
}

func (s *Store) AddMember(ctx context.Context, m *group.Member) error {
	return InsertMember(ctx, s.db, m)
}

func (s *Store) GetMember(ctx context.Context, groupID, memberID uuid.UUID) (*group.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, `SELECT `+selectMemberColumns+`
		FROM group_members m
		WHERE m.group_id = $1 AND m.id = $2`, groupID, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrMemberNotFound
		}

		return nil, fmt.Errorf("getting group member: %w", err)
	}

	return m, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *group.Member) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE group_members SET name = $1, email = $2 WHERE group_id = $3 AND id = $4`,
		m.Name, m.Email, m.GroupID, m.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return group.ErrDuplicateMember
		}

		return fmt.Errorf("updating group member: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("updating group member: %w", err)
	} else if n == 0 {
		return group.ErrMemberNotFound
	}

	return nil
}

func (s *Store) DeleteMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND id = $2`, groupID, memberID)
	if err != nil {
		return fmt.Errorf("deleting group member: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting group member: %w", err)
	} else if n == 0 {
		return group.ErrMemberNotFound
	}

	return nil
}
