package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// WriteText renders a plain text report, one line per transaction.
func WriteText(w io.Writer, r *Report) error {
	var sb strings.Builder

	sb.WriteString(r.Title + "\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Period: %s\n", r.Period()))
	sb.WriteString(fmt.Sprintf("Records: %d\n\n", len(r.Rows)))

	for _, row := range r.Rows {
		tx := row.Transaction

		sign := "-"
		if tx.Type == transaction.TypeIncome {
			sign = "+"
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s | %s%s | %s\n",
			tx.Date.Format(time.DateOnly),
			tx.Description,
			tx.PaidBy,
			sign,
			tx.Amount.StringFixed(2),
			row.Balance.StringFixed(2),
		))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total income: %s\n", r.Totals.TotalIncome.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Total expenses: %s\n", r.Totals.TotalExpenses.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Net balance: %s\n", r.Totals.NetBalance.StringFixed(2)))

	_, err := io.WriteString(w, sb.String())

	return err
}
