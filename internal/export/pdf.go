package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 24, "L"},
	{"Description", 62, "L"},
	{"Person", 30, "L"},
	{"Income", 24, "R"},
	{"Expense", 24, "R"},
	{"Balance", 26, "R"},
}

// WritePDF renders the report as an A4 ledger table.
func WritePDF(w io.Writer, r *Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", r.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("Period: "+r.Period()), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%d records", len(r.Rows)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)

		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
		}

		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	header()

	for _, row := range r.Rows {
		tx := row.Transaction

		income, expense := "", ""
		if tx.Type == transaction.TypeIncome {
			income = tx.Amount.StringFixed(2)
		} else {
			expense = tx.Amount.StringFixed(2)
		}

		cells := []string{
			tx.Date.Format(time.DateOnly),
			truncate(tx.Description, 40),
			truncate(tx.PaidBy, 18),
			income,
			expense,
			row.Balance.StringFixed(2),
		}

		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, c.align, false, 0, "")
		}

		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)

	for _, line := range [][2]string{
		{"Total income", r.Totals.TotalIncome.StringFixed(2)},
		{"Total expenses", r.Totals.TotalExpenses.StringFixed(2)},
		{"Net balance", r.Totals.NetBalance.StringFixed(2)},
	} {
		pdf.CellFormat(140, 6, line[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, line[1], "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}

	return pdf.Output(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
