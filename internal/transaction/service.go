package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/split"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	SetSplitPaid(ctx context.Context, id uuid.UUID, paid bool) (*Split, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups the writes that must land together: a transaction and its splits.
type Tx interface {
	// GroupMembers returns the current members of a group, or ErrGroupNotFound.
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]split.Member, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateSplits(ctx context.Context, splits []Split) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo      Repository
	strategy  split.Strategy
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{repo: repo, strategy: split.Equal{}, publisher: publisher}
}

// WithStrategy swaps the split strategy used for shared transactions.
func (s *Service) WithStrategy(strategy split.Strategy) *Service {
	s.strategy = strategy
	return s
}

type CreateParams struct {
	Type        Type `validate:"required,oneof=income expense"`
	Amount      decimal.Decimal
	Description string `validate:"required,max=500"`
	Category    string `validate:"max=100"`
	Date        time.Time
	PaidBy      string `validate:"required,max=100"`
	IsShared    bool
	GroupID     *uuid.UUID
}

func (p *CreateParams) validate() error {
	p.Description = strings.TrimSpace(p.Description)
	p.PaidBy = strings.TrimSpace(p.PaidBy)
	p.Category = strings.TrimSpace(p.Category)

	verr := validation.Struct(p)

	if !p.Amount.IsPositive() {
		verr.Add("amount", "must be greater than zero")
	}

	if p.Date.IsZero() {
		verr.Add("date", "is required")
	}

	if p.IsShared && p.GroupID == nil {
		verr.Add("groupId", "is required for shared transactions")
	}

	return verr.Err()
}

type UpdateParams struct {
	Type        *Type
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Date        *time.Time
	PaidBy      *string
}

type ListFilter struct {
	GroupID   *uuid.UUID
	Type      *Type
	Category  *string
	PaidBy    *string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

// CreateResult carries the stored transaction and any non-fatal problems the
// caller should show to the user.
type CreateResult struct {
	Transaction *Transaction
	Warnings    []string
}

const warnEmptyGroup = "group has no members, transaction recorded without splits"

// Create stores a transaction. Shared transactions are split across the
// group's current members in the same storage transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if !params.IsShared {
		params.GroupID = nil
	}

	tx := &Transaction{
		Type:        params.Type,
		Amount:      params.Amount.Round(2),
		Description: params.Description,
		Category:    params.Category,
		Date:        params.Date,
		PaidBy:      params.PaidBy,
		IsShared:    params.IsShared,
		GroupID:     params.GroupID,
	}

	dbtx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer dbtx.Rollback()

	var (
		members  []split.Member
		warnings []string
	)

	if tx.IsShared {
		members, err = dbtx.GroupMembers(ctx, *tx.GroupID)
		if err != nil {
			return nil, fmt.Errorf("loading group members: %w", err)
		}

		if len(members) == 0 {
			warnings = append(warnings, warnEmptyGroup)
		}
	}

	if err := dbtx.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if shares := split.Build(s.strategy, tx.Amount, tx.PaidBy, members); len(shares) > 0 {
		tx.Splits = toSplits(tx.ID, shares)

		if err := dbtx.CreateSplits(ctx, tx.Splits); err != nil {
			return nil, fmt.Errorf("create splits: %w", err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	s.publisher.Publish(ctx, events.New(events.TransactionCreated, tx))

	return &CreateResult{Transaction: tx, Warnings: warnings}, nil
}

func toSplits(txID uuid.UUID, shares []split.Share) []Split {
	out := make([]Split, 0, len(shares))
	for _, sh := range shares {
		out = append(out, Split{
			TransactionID: txID,
			MemberID:      new(sh.MemberID),
			MemberName:    sh.MemberName,
			Amount:        sh.Amount,
			IsPaid:        sh.IsPaid,
		})
	}

	return out
}

// CreateBatch stores non-shared transactions all-or-nothing. Used by imports.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		params[i].IsShared = false
		params[i].GroupID = nil

		if err := params[i].validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	dbtx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	defer dbtx.Rollback()

	txs := make([]*Transaction, 0, len(params))

	for _, p := range params {
		tx := &Transaction{
			Type:        p.Type,
			Amount:      p.Amount.Round(2),
			Description: p.Description,
			Category:    p.Category,
			Date:        p.Date,
			PaidBy:      p.PaidBy,
		}
		if err := dbtx.CreateTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	for _, tx := range txs {
		s.publisher.Publish(ctx, events.New(events.TransactionCreated, tx))
	}

	return txs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.ListTransactions(ctx, filter)
}

// Update applies the non-nil fields of params. Existing splits are left as
// they were recorded.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Amount != nil {
		tx.Amount = params.Amount.Round(2)
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Category != nil {
		tx.Category = *params.Category
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.PaidBy != nil {
		tx.PaidBy = *params.PaidBy
	}

	check := CreateParams{
		Type:        tx.Type,
		Amount:      tx.Amount,
		Description: tx.Description,
		Category:    tx.Category,
		Date:        tx.Date,
		PaidBy:      tx.PaidBy,
		IsShared:    tx.IsShared,
		GroupID:     tx.GroupID,
	}
	if err := check.validate(); err != nil {
		return nil, err
	}

	tx.Description, tx.Category, tx.PaidBy = check.Description, check.Category, check.PaidBy

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.TransactionUpdated, tx))

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.New(events.TransactionDeleted, map[string]string{"id": id.String()}))

	return nil
}

// SetSplitPaid marks a member's share as settled or outstanding.
func (s *Service) SetSplitPaid(ctx context.Context, id uuid.UUID, paid bool) (*Split, error) {
	sp, err := s.repo.SetSplitPaid(ctx, id, paid)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.SplitUpdated, sp))

	return sp, nil
}
