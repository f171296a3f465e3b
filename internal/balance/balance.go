// Package balance derives totals and member balances from the ledger on read.
// Nothing here is materialized; every figure reflects the rows as they are now.
package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Filter narrows the transactions included in Stats. Both bounds are
// inclusive and either may be left open.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	GroupID *uuid.UUID
	PaidBy  *string
}

type Stats struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetBalance    decimal.Decimal
}

func newStats(income, expenses decimal.Decimal) Stats {
	return Stats{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetBalance:    income.Sub(expenses),
	}
}

// Summarize totals an in-memory list of transactions.
func Summarize(txs []*transaction.Transaction) Stats {
	income, expenses := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(tx.Amount)
		case transaction.TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return newStats(income, expenses)
}

// SplitEntry is the slice of a split the balance computation needs.
type SplitEntry struct {
	MemberName string
	Amount     decimal.Decimal
	IsPaid     bool
}

type MemberBalance struct {
	MemberID       uuid.UUID
	Name           string
	OpeningBalance decimal.Decimal
	Owed           decimal.Decimal // unpaid shares
	Settled        decimal.Decimal // paid shares, informational
	Balance        decimal.Decimal
}

// Unattributed collects unpaid shares recorded under a name no current member
// carries, typically after a rename or removal.
type Unattributed struct {
	Name string
	Owed decimal.Decimal
}

type GroupBalances struct {
	GroupID      uuid.UUID
	TotalShared  decimal.Decimal
	Members      []MemberBalance
	Unattributed []Unattributed
}

// Compute derives each member's balance as the opening balance minus the
// unpaid shares recorded under the member's name. Paid shares do not move the
// balance. Shares are matched by exact name.
func Compute(groupID uuid.UUID, members []group.Member, splits []SplitEntry, totalShared decimal.Decimal) *GroupBalances {
	owed := make(map[string]decimal.Decimal)
	settled := make(map[string]decimal.Decimal)

	var order []string

	for _, s := range splits {
		if _, ok := owed[s.MemberName]; !ok {
			owed[s.MemberName] = decimal.Zero
			settled[s.MemberName] = decimal.Zero
			order = append(order, s.MemberName)
		}

		if s.IsPaid {
			settled[s.MemberName] = settled[s.MemberName].Add(s.Amount)
		} else {
			owed[s.MemberName] = owed[s.MemberName].Add(s.Amount)
		}
	}

	out := &GroupBalances{
		GroupID:     groupID,
		TotalShared: totalShared,
		Members:     make([]MemberBalance, 0, len(members)),
	}

	known := make(map[string]bool, len(members))

	for _, m := range members {
		known[m.Name] = true

		o, ok := owed[m.Name]
		if !ok {
			o = decimal.Zero
		}

		st, ok := settled[m.Name]
		if !ok {
			st = decimal.Zero
		}

		out.Members = append(out.Members, MemberBalance{
			MemberID:       m.ID,
			Name:           m.Name,
			OpeningBalance: m.OpeningBalance,
			Owed:           o,
			Settled:        st,
			Balance:        m.OpeningBalance.Sub(o),
		})
	}

	for _, name := range order {
		if known[name] || owed[name].IsZero() {
			continue
		}

		out.Unattributed = append(out.Unattributed, Unattributed{Name: name, Owed: owed[name]})
	}

	return out
}
