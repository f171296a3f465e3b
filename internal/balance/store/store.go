package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/group"
	groupStore "github.com/MrJamesThe3rd/tally/internal/group/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Totals(ctx context.Context, filter balance.Filter) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0)
		FROM transactions t
		WHERE TRUE`

	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		query += " AND " + strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(args)))
	}

	if filter.Start != nil {
		add("t.date >= ?", *filter.Start)
	}

	if filter.End != nil {
		add("t.date <= ?", *filter.End)
	}

	if filter.GroupID != nil {
		add("t.group_id = ?", *filter.GroupID)
	}

	if filter.PaidBy != nil {
		add("t.paid_by = ?", *filter.PaidBy)
	}

	var income, expenses decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&income, &expenses); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing transactions: %w", err)
	}

	return income, expenses, nil
}

func (s *Store) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]group.Member, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking group: %w", err)
	}

	if !exists {
		return nil, group.ErrNotFound
	}

	return groupStore.ListMembers(ctx, s.db, groupID)
}

func (s *Store) GroupSplits(ctx context.Context, groupID uuid.UUID) ([]balance.SplitEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.member_name, s.amount, s.is_paid
		FROM transaction_splits s
		JOIN transactions t ON t.id = s.transaction_id
		WHERE t.group_id = $1
		ORDER BY t.date, t.created_at, s.position`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group splits: %w", err)
	}
	defer rows.Close()

	var out []balance.SplitEntry

	for rows.Next() {
		var e balance.SplitEntry
		if err := rows.Scan(&e.MemberName, &e.Amount, &e.IsPaid); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (s *Store) SharedTotal(ctx context.Context, groupID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE group_id = $1 AND is_shared AND type = 'expense'`, groupID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing shared expenses: %w", err)
	}

	return total, nil
}

func (s *Store) BeginAdjustment(ctx context.Context) (balance.AdjustmentTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &adjustmentTx{tx: tx}, nil
}

type adjustmentTx struct {
	tx *sql.Tx
}

func (a *adjustmentTx) LockMember(ctx context.Context, groupID, memberID uuid.UUID) (*group.Member, error) {
	var m group.Member

	err := a.tx.QueryRowContext(ctx, `
		SELECT id, group_id, name, email, opening_balance, joined_at
		FROM group_members
		WHERE group_id = $1 AND id = $2
		FOR UPDATE`, groupID, memberID,
	).Scan(&m.ID, &m.GroupID, &m.Name, &m.Email, &m.OpeningBalance, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, group.ErrMemberNotFound
		}

		return nil, fmt.Errorf("locking member: %w", err)
	}

	return &m, nil
}

func (a *adjustmentTx) SetOpeningBalance(ctx context.Context, memberID uuid.UUID, value decimal.Decimal) error {
	_, err := a.tx.ExecContext(ctx, `UPDATE group_members SET opening_balance = $1 WHERE id = $2`, value, memberID)
	if err != nil {
		return fmt.Errorf("updating opening balance: %w", err)
	}

	return nil
}

func (a *adjustmentTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return txStore.Insert(ctx, a.tx, tx)
}

func (a *adjustmentTx) Commit() error {
	return a.tx.Commit()
}

func (a *adjustmentTx) Rollback() error {
	return a.tx.Rollback()
}
