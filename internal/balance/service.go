package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=balance
type Repository interface {
	Totals(ctx context.Context, filter Filter) (income, expenses decimal.Decimal, err error)
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]group.Member, error)
	GroupSplits(ctx context.Context, groupID uuid.UUID) ([]SplitEntry, error)
	SharedTotal(ctx context.Context, groupID uuid.UUID) (decimal.Decimal, error)

	BeginAdjustment(ctx context.Context) (AdjustmentTx, error)
}

// AdjustmentTx holds the opening balance update and its audit entry together.
type AdjustmentTx interface {
	// LockMember returns the member and holds it until commit, or group.ErrMemberNotFound.
	LockMember(ctx context.Context, groupID, memberID uuid.UUID) (*group.Member, error)
	SetOpeningBalance(ctx context.Context, memberID uuid.UUID, value decimal.Decimal) error
	CreateTransaction(ctx context.Context, tx *transaction.Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{repo: repo, publisher: publisher, now: time.Now}
}

// WithClock overrides the time source used to date adjustment entries.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Stats(ctx context.Context, filter Filter) (Stats, error) {
	income, expenses, err := s.repo.Totals(ctx, filter)
	if err != nil {
		return Stats{}, fmt.Errorf("computing totals: %w", err)
	}

	return newStats(income, expenses), nil
}

func (s *Service) GroupBalances(ctx context.Context, groupID uuid.UUID) (*GroupBalances, error) {
	members, err := s.repo.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	splits, err := s.repo.GroupSplits(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("loading splits: %w", err)
	}

	total, err := s.repo.SharedTotal(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("computing shared total: %w", err)
	}

	return Compute(groupID, members, splits, total), nil
}

// Adjustment describes the outcome of an opening balance edit.
type Adjustment struct {
	Member      *group.Member
	Previous    decimal.Decimal
	Changed     bool
	Transaction *transaction.Transaction // audit entry, nil when nothing was written
	Warnings    []string
}

const warnZeroAdjustment = "opening balance set to zero, no audit entry recorded"

// AdjustOpeningBalance stores a new opening balance for a member and records
// the edit as a ledger entry. Both writes commit together or not at all. An
// unchanged value writes nothing.
func (s *Service) AdjustOpeningBalance(ctx context.Context, groupID, memberID uuid.UUID, value decimal.Decimal) (*Adjustment, error) {
	value = value.Round(2)

	atx, err := s.repo.BeginAdjustment(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin adjustment: %w", err)
	}
	defer atx.Rollback()

	member, err := atx.LockMember(ctx, groupID, memberID)
	if err != nil {
		if errors.Is(err, group.ErrMemberNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("locking member: %w", err)
	}

	adj := &Adjustment{Member: member, Previous: member.OpeningBalance}

	if member.OpeningBalance.Equal(value) {
		return adj, nil
	}

	if err := atx.SetOpeningBalance(ctx, member.ID, value); err != nil {
		return nil, fmt.Errorf("updating opening balance: %w", err)
	}

	member.OpeningBalance = value
	adj.Changed = true

	if value.IsZero() {
		adj.Warnings = append(adj.Warnings, warnZeroAdjustment)
	} else {
		entry := adjustmentEntry(member, value, s.now())
		if err := atx.CreateTransaction(ctx, entry); err != nil {
			return nil, fmt.Errorf("recording adjustment: %w", err)
		}

		adj.Transaction = entry
	}

	if err := atx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjustment: %w", err)
	}

	s.publisher.Publish(ctx, events.New(events.BalanceAdjusted, map[string]any{
		"groupId":        groupID,
		"memberId":       member.ID,
		"openingBalance": value.StringFixed(2),
	}))

	if adj.Transaction != nil {
		s.publisher.Publish(ctx, events.New(events.TransactionCreated, adj.Transaction))
	}

	return adj, nil
}

// adjustmentEntry builds the audit transaction for a new opening balance.
// Amounts are positive, so a negative balance is recorded as an expense.
func adjustmentEntry(member *group.Member, value decimal.Decimal, now time.Time) *transaction.Transaction {
	txType := transaction.TypeIncome
	if value.IsNegative() {
		txType = transaction.TypeExpense
	}

	return &transaction.Transaction{
		Type:        txType,
		Amount:      value.Abs(),
		Description: "Opening balance adjusted for member " + member.Name,
		Category:    transaction.CategoryAdjustment,
		Date:        now,
		PaidBy:      member.Name,
	}
}
