package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/split"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.type, t.amount, t.description, t.category, t.date, t.paid_by,
	t.is_shared, t.group_id, t.created_at, t.updated_at
`

// scanTransaction expects the columns of selectTransactionColumns, in order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &typeStr, &tx.Amount, &tx.Description, &tx.Category, &tx.Date, &tx.PaidBy,
		&tx.IsShared, &tx.GroupID, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

const selectSplitColumns = `s.id, s.transaction_id, s.member_id, s.member_name, s.amount, s.is_paid`

func scanSplit(s scanner) (*transaction.Split, error) {
	var sp transaction.Split
	if err := s.Scan(&sp.ID, &sp.TransactionID, &sp.MemberID, &sp.MemberName, &sp.Amount, &sp.IsPaid); err != nil {
		return nil, err
	}

	return &sp, nil
}

// Insert writes a transaction row and fills in the generated columns.
func Insert(ctx context.Context, q database.Querier, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (type, amount, description, category, date, paid_by, is_shared, group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.Category,
		tx.Date,
		tx.PaidBy,
		tx.IsShared,
		tx.GroupID,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	if err := s.attachSplits(ctx, []*transaction.Transaction{tx}); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE TRUE`

	var args []any

	add := func(clause string, v any) {
		args = append(args, v)
		query += " AND " + strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(args)))
	}

	if filter.GroupID != nil {
		add("t.group_id = ?", *filter.GroupID)
	}

	if filter.Type != nil {
		add("t.type = ?", *filter.Type)
	}

	if filter.Category != nil {
		add("t.category = ?", *filter.Category)
	}

	if filter.PaidBy != nil {
		add("t.paid_by = ?", *filter.PaidBy)
	}

	if filter.StartDate != nil {
		add("t.date >= ?", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("t.date <= ?", *filter.EndDate)
	}

	if filter.Search != "" {
		add("(t.description ILIKE ? OR t.paid_by ILIKE ?)", "%"+escapeLike(filter.Search)+"%")
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	if err := s.attachSplits(ctx, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// attachSplits loads the splits of all given transactions in one query.
func (s *Store) attachSplits(ctx context.Context, txs []*transaction.Transaction) error {
	byID := make(map[uuid.UUID]*transaction.Transaction)
	ids := make([]string, 0, len(txs))

	for _, tx := range txs {
		if tx.IsShared {
			byID[tx.ID] = tx
			ids = append(ids, tx.ID.String())
		}
	}

	if len(ids) == 0 {
		return nil
	}

	query := `SELECT ` + selectSplitColumns + `
		FROM transaction_splits s
		WHERE s.transaction_id = ANY($1::uuid[])
		ORDER BY s.transaction_id, s.position`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sp, err := scanSplit(rows)
		if err != nil {
			return fmt.Errorf("scanning split: %w", err)
		}

		if tx, ok := byID[sp.TransactionID]; ok {
			tx.Splits = append(tx.Splits, *sp)
		}
	}

	return rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, description = $3, category = $4, date = $5, paid_by = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.Category,
		tx.Date,
		tx.PaidBy,
		tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

// DeleteTransaction removes the row for good; splits go with it.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) SetSplitPaid(ctx context.Context, id uuid.UUID, paid bool) (*transaction.Split, error) {
	query := `
		UPDATE transaction_splits s SET is_paid = $1
		WHERE s.id = $2
		RETURNING ` + selectSplitColumns

	sp, err := scanSplit(s.db.QueryRowContext(ctx, query, paid, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrSplitNotFound
		}

		return nil, fmt.Errorf("updating split: %w", err)
	}

	return sp, nil
}

func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &createTx{tx: tx}, nil
}

type createTx struct {
	tx *sql.Tx
}

// GroupMembers takes a share lock on the group so it cannot be deleted while
// the transaction referencing it is being written.
func (c *createTx) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]split.Member, error) {
	var one int

	err := c.tx.QueryRowContext(ctx, `SELECT 1 FROM groups WHERE id = $1 FOR SHARE`, groupID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrGroupNotFound
		}

		return nil, fmt.Errorf("locking group: %w", err)
	}

	rows, err := c.tx.QueryContext(ctx,
		`SELECT id, name FROM group_members WHERE group_id = $1 ORDER BY joined_at, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing group members: %w", err)
	}
	defer rows.Close()

	var members []split.Member

	for rows.Next() {
		var m split.Member
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}

		members = append(members, m)
	}

	return members, rows.Err()
}

func (c *createTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return Insert(ctx, c.tx, tx)
}

func (c *createTx) CreateSplits(ctx context.Context, splits []transaction.Split) error {
	query := `
		INSERT INTO transaction_splits (transaction_id, member_id, member_name, amount, is_paid, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range splits {
		sp := &splits[i]

		err := c.tx.QueryRowContext(ctx, query,
			sp.TransactionID, sp.MemberID, sp.MemberName, sp.Amount, sp.IsPaid, i,
		).Scan(&sp.ID)
		if err != nil {
			return fmt.Errorf("creating split for %s: %w", sp.MemberName, err)
		}
	}

	return nil
}

func (c *createTx) Commit() error {
	return c.tx.Commit()
}

func (c *createTx) Rollback() error {
	return c.tx.Rollback()
}
