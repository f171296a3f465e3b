package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/group"
	groupStore "github.com/MrJamesThe3rd/tally/internal/group/store"
	"github.com/MrJamesThe3rd/tally/internal/invite"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectInviteColumns = `id, group_id, invite_code, invited_by, expires_at, max_uses, current_uses, is_active, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanInvite(s scanner) (*invite.Invite, error) {
	var (
		inv     invite.Invite
		maxUses sql.NullInt64
	)

	if err := s.Scan(
		&inv.ID, &inv.GroupID, &inv.Code, &inv.InvitedBy, &inv.ExpiresAt,
		&maxUses, &inv.CurrentUses, &inv.IsActive, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	if maxUses.Valid {
		inv.MaxUses = new(int(maxUses.Int64))
	}

	return &inv, nil
}

func (s *Store) CreateInvite(ctx context.Context, inv *invite.Invite) error {
	query := `
		INSERT INTO group_invites (group_id, invite_code, invited_by, expires_at, max_uses, current_uses, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, TRUE, NOW())
		RETURNING id, current_uses, is_active, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.GroupID, inv.Code, inv.InvitedBy, inv.ExpiresAt, inv.MaxUses,
	).Scan(&inv.ID, &inv.CurrentUses, &inv.IsActive, &inv.CreatedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return invite.ErrCodeTaken
		case database.IsForeignKeyViolation(err):
			return group.ErrNotFound
		}

		return fmt.Errorf("creating invite: %w", err)
	}

	return nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (*invite.Invite, error) {
	inv, err := scanInvite(s.db.QueryRowContext(ctx,
		`SELECT `+selectInviteColumns+` FROM group_invites WHERE invite_code = $1`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invite.ErrNotFound
		}

		return nil, fmt.Errorf("getting invite: %w", err)
	}

	return inv, nil
}

func (s *Store) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*invite.Invite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectInviteColumns+` FROM group_invites WHERE group_id = $1 ORDER BY created_at DESC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	var out []*invite.Invite

	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}

		out = append(out, inv)
	}

	return out, rows.Err()
}

func (s *Store) Deactivate(ctx context.Context, id uuid.UUID) (*invite.Invite, error) {
	inv, err := scanInvite(s.db.QueryRowContext(ctx,
		`UPDATE group_invites SET is_active = FALSE WHERE id = $1 RETURNING `+selectInviteColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invite.ErrNotFound
		}

		return nil, fmt.Errorf("deactivating invite: %w", err)
	}

	return inv, nil
}

func (s *Store) BeginRedeem(ctx context.Context) (invite.RedeemTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &redeemTx{tx: tx}, nil
}

type redeemTx struct {
	tx *sql.Tx
}

func (r *redeemTx) LockByCode(ctx context.Context, code string) (*invite.Invite, error) {
	inv, err := scanInvite(r.tx.QueryRowContext(ctx,
		`SELECT `+selectInviteColumns+` FROM group_invites WHERE invite_code = $1 FOR UPDATE`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invite.ErrNotFound
		}

		return nil, fmt.Errorf("locking invite: %w", err)
	}

	return inv, nil
}

func (r *redeemTx) AddMember(ctx context.Context, m *group.Member) error {
	return groupStore.InsertMember(ctx, r.tx, m)
}

// IncrementUses relies on the WHERE clause rather than the earlier read, so
// the cap holds even if the row was not locked.
func (r *redeemTx) IncrementUses(ctx context.Context, id uuid.UUID) (int, error) {
	var uses int

	err := r.tx.QueryRowContext(ctx, `
		UPDATE group_invites
		SET current_uses = current_uses + 1
		WHERE id = $1 AND is_active AND (max_uses IS NULL OR current_uses < max_uses)
		RETURNING current_uses`, id).Scan(&uses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, invite.ErrExhausted
		}

		return 0, fmt.Errorf("incrementing invite uses: %w", err)
	}

	return uses, nil
}

func (r *redeemTx) Group(ctx context.Context, id uuid.UUID) (*group.Group, error) {
	var g group.Group

	err := r.tx.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrNotFound
		}

		return nil, fmt.Errorf("getting group: %w", err)
	}

	g.Members, err = groupStore.ListMembers(ctx, r.tx, id)
	if err != nil {
		return nil, err
	}

	g.MemberCount = len(g.Members)

	return &g, nil
}

func (r *redeemTx) Commit() error {
	return r.tx.Commit()
}

func (r *redeemTx) Rollback() error {
	return r.tx.Rollback()
}
