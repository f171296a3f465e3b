package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

var excelHeader = []any{"Date", "Description", "Type", "Amount", "Category", "Paid By", "Balance"}

// WriteExcel renders the report as a single sheet workbook.
func WriteExcel(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(ledgerSheet, "A1", &excelHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetCellStyle(ledgerSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range r.Rows {
		tx := row.Transaction

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []any{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			string(tx.Type),
			tx.Amount.InexactFloat64(),
			tx.Category,
			tx.PaidBy,
			row.Balance.InexactFloat64(),
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	last := len(r.Rows) + 1
	if len(r.Rows) > 0 {
		if err := f.SetCellStyle(ledgerSheet, "D2", fmt.Sprintf("D%d", last), money); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}

		if err := f.SetCellStyle(ledgerSheet, "G2", fmt.Sprintf("G%d", last), money); err != nil {
			return fmt.Errorf("styling balances: %w", err)
		}
	}

	totals := [][2]any{
		{"Total income", r.Totals.TotalIncome.InexactFloat64()},
		{"Total expenses", r.Totals.TotalExpenses.InexactFloat64()},
		{"Net balance", r.Totals.NetBalance.InexactFloat64()},
	}

	for i, t := range totals {
		rowNum := last + 2 + i

		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("C%d", rowNum), t[0]); err != nil {
			return err
		}

		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", rowNum), t[1]); err != nil {
			return err
		}

		if err := f.SetCellStyle(ledgerSheet, fmt.Sprintf("C%d", rowNum), fmt.Sprintf("D%d", rowNum), bold); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ledgerSheet, "B", "B", 40); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
