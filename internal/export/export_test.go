package export_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type stubLister struct {
	txs    []*transaction.Transaction
	err    error
	filter transaction.ListFilter
}

func (s *stubLister) List(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.filter = filter
	return s.txs, s.err
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func sample() []*transaction.Transaction {
	// Listed newest first, the way the store returns them.
	return []*transaction.Transaction{
		{Type: transaction.TypeExpense, Amount: decimal.RequireFromString("30"), Description: "Groceries", PaidBy: "Ana", Date: day(10)},
		{Type: transaction.TypeExpense, Amount: decimal.RequireFromString("12.50"), Description: "Café", PaidBy: "Rui", Date: day(5)},
		{Type: transaction.TypeIncome, Amount: decimal.RequireFromString("100"), Description: "Salary", PaidBy: "Ana", Date: day(1)},
	}
}

func TestBuildReport(t *testing.T) {
	txs := sample()
	r := export.BuildReport("March", txs, nil, nil, day(31))

	require.Len(t, r.Rows, 3)
	assert.Equal(t, "Salary", r.Rows[0].Transaction.Description)
	assert.Equal(t, "100.00", r.Rows[0].Balance.StringFixed(2))
	assert.Equal(t, "87.50", r.Rows[1].Balance.StringFixed(2))
	assert.Equal(t, "57.50", r.Rows[2].Balance.StringFixed(2))

	assert.Equal(t, "57.50", r.Totals.NetBalance.StringFixed(2))
	assert.Equal(t, "42.50", r.Totals.TotalExpenses.StringFixed(2))

	// Input order untouched.
	assert.Equal(t, "Groceries", txs[0].Description)
}

func TestReport_Period(t *testing.T) {
	start, end := day(1), day(31)

	assert.Equal(t, "all time", (&export.Report{}).Period())
	assert.Equal(t, "2026-03-01 to 2026-03-31", (&export.Report{Start: &start, End: &end}).Period())
	assert.Equal(t, "from 2026-03-01", (&export.Report{Start: &start}).Period())
	assert.Equal(t, "until 2026-03-31", (&export.Report{End: &end}).Period())
}

func TestService_Report(t *testing.T) {
	t.Run("PassesFilter", func(t *testing.T) {
		start := day(1)
		lister := &stubLister{txs: sample()}
		svc := export.NewService(lister)

		r, err := svc.Report(context.Background(), "", transaction.ListFilter{StartDate: &start})
		require.NoError(t, err)

		assert.Equal(t, "Ledger report", r.Title)
		assert.Equal(t, &start, r.Start)
		assert.Equal(t, &start, lister.filter.StartDate)
		assert.Len(t, r.Rows, 3)
	})

	t.Run("ListError", func(t *testing.T) {
		svc := export.NewService(&stubLister{err: errors.New("db down")})

		_, err := svc.Report(context.Background(), "x", transaction.ListFilter{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestWriteText(t *testing.T) {
	r := export.BuildReport("March", sample(), nil, nil, day(31))

	var buf bytes.Buffer
	require.NoError(t, export.WriteText(&buf, r))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "March\n"))
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "* 2026-03-01 | Salary | Ana | +100.00 | 100.00")
	assert.Contains(t, out, "* 2026-03-05 | Café | Rui | -12.50 | 87.50")
	assert.Contains(t, out, "Net balance: 57.50")
}

func TestWritePDF(t *testing.T) {
	r := export.BuildReport("Relatório", sample(), nil, nil, day(31))

	var buf bytes.Buffer
	require.NoError(t, export.WritePDF(&buf, r))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteExcel(t *testing.T) {
	r := export.BuildReport("March", sample(), nil, nil, day(31))

	var buf bytes.Buffer
	require.NoError(t, export.WriteExcel(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	defer f.Close()

	rows, err := f.GetRows("Ledger")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"Date", "Description", "Type", "Amount", "Category", "Paid By", "Balance"}, rows[0])
	assert.Equal(t, "2026-03-01", rows[1][0])
	assert.Equal(t, "Salary", rows[1][1])
	assert.Equal(t, "income", rows[1][2])

	label, err := f.GetCellValue("Ledger", "C8")
	require.NoError(t, err)
	assert.Equal(t, "Net balance", label)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := export.Write(&bytes.Buffer{}, export.Format("csv"), &export.Report{})
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, ".pdf", export.FormatPDF.Extension())
	assert.Equal(t, "application/pdf", export.FormatPDF.ContentType())
	assert.Equal(t, ".xlsx", export.FormatExcel.Extension())
	assert.Equal(t, ".txt", export.FormatText.Extension())
}
