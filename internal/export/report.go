package export

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Row is a ledger line with the balance after it was applied.
type Row struct {
	Transaction *transaction.Transaction
	Balance     decimal.Decimal
}

// Report is the format independent content of an export.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Start       *time.Time
	End         *time.Time
	Rows        []Row
	Totals      balance.Stats
}

// BuildReport orders the transactions oldest first and carries a running
// balance through them. The input slice is not modified.
func BuildReport(title string, txs []*transaction.Transaction, start, end *time.Time, now time.Time) *Report {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b *transaction.Transaction) int {
		return cmp.Or(a.Date.Compare(b.Date), a.CreatedAt.Compare(b.CreatedAt))
	})

	rows := make([]Row, 0, len(ordered))
	running := decimal.Zero

	for _, tx := range ordered {
		if tx.Type == transaction.TypeIncome {
			running = running.Add(tx.Amount)
		} else {
			running = running.Sub(tx.Amount)
		}

		rows = append(rows, Row{Transaction: tx, Balance: running})
	}

	return &Report{
		Title:       title,
		GeneratedAt: now,
		Start:       start,
		End:         end,
		Rows:        rows,
		Totals:      balance.Summarize(txs),
	}
}

// Period renders the report's date range for headers.
func (r *Report) Period() string {
	switch {
	case r.Start != nil && r.End != nil:
		return r.Start.Format(time.DateOnly) + " to " + r.End.Format(time.DateOnly)
	case r.Start != nil:
		return "from " + r.Start.Format(time.DateOnly)
	case r.End != nil:
		return "until " + r.End.Format(time.DateOnly)
	}

	return "all time"
}
