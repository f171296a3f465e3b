package group

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("group not found")
	ErrMemberNotFound  = errors.New("group member not found")
	ErrDuplicateMember = errors.New("a member with this name already exists in the group")
)

type Group struct {
	ID          uuid.UUID
	Name        string
	Description string
	Members     []Member
	MemberCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member belongs to exactly one group. Transactions refer to members by Name.
type Member struct {
	ID             uuid.UUID
	GroupID        uuid.UUID
	Name           string
	Email          string
	OpeningBalance decimal.Decimal // signed
	JoinedAt       time.Time
}
