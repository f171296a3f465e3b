package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// CategoryAdjustment tags the audit entries written when an opening balance changes.
const CategoryAdjustment = "adjustment"

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrSplitNotFound = errors.New("split not found")
	ErrGroupNotFound = errors.New("group not found")
)

// Transaction represents a single income or expense entry in the ledger.
type Transaction struct {
	ID          uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	PaidBy      string
	IsShared    bool
	GroupID     *uuid.UUID
	Splits      []Split // Loaded with the transaction
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Split is one member's share of a shared transaction. It is a snapshot taken
// when the transaction was created and keeps the member name it was created with.
type Split struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	MemberID      *uuid.UUID
	MemberName    string
	Amount        decimal.Decimal
	IsPaid        bool
}
