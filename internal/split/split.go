// Package split turns a shared amount into per-member shares.
package split

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member is the part of a group member the split engine cares about.
type Member struct {
	ID   uuid.UUID
	Name string
}

// Share is one member's portion of a shared amount.
type Share struct {
	MemberID   uuid.UUID
	MemberName string
	Amount     decimal.Decimal
	IsPaid     bool
}

// Strategy decides how an amount is divided between members. Implementations
// return one share per member, in member order.
type Strategy interface {
	ComputeShares(amount decimal.Decimal, members []Member) []Share
}

// Equal divides the amount evenly and rounds each share to cents. Remainders
// are not redistributed, so shares may not sum to the exact amount.
type Equal struct{}

func (Equal) ComputeShares(amount decimal.Decimal, members []Member) []Share {
	if len(members) == 0 {
		return nil
	}

	each := amount.Div(decimal.NewFromInt(int64(len(members)))).Round(2)

	shares := make([]Share, 0, len(members))
	for _, m := range members {
		shares = append(shares, Share{
			MemberID:   m.ID,
			MemberName: m.Name,
			Amount:     each,
		})
	}

	return shares
}

// Build computes the shares with the given strategy and marks the payer's
// share as paid. The payer is matched by exact name.
func Build(strategy Strategy, amount decimal.Decimal, paidBy string, members []Member) []Share {
	if len(members) == 0 {
		return nil
	}

	if strategy == nil {
		strategy = Equal{}
	}

	shares := strategy.ComputeShares(amount, members)
	for i := range shares {
		shares[i].IsPaid = shares[i].MemberName == paidBy
	}

	return shares
}
