package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatText  Format = "text"
)

// ContentType and Extension describe the file produced for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/plain; charset=utf-8"
}

func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return ".pdf"
	case FormatExcel:
		return ".xlsx"
	}

	return ".txt"
}

// Lister is the part of the transaction service exports read from.
type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service renders ledger reports.
type Service struct {
	transactions Lister
	now          func() time.Time
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions, now: time.Now}
}

// Report lists the transactions matching filter and builds a report from them.
func (s *Service) Report(ctx context.Context, title string, filter transaction.ListFilter) (*Report, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	if title == "" {
		title = "Ledger report"
	}

	return BuildReport(title, txs, filter.StartDate, filter.EndDate, s.now()), nil
}

// Write renders r in the given format.
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, r)
	case FormatExcel:
		return WriteExcel(w, r)
	case FormatText:
		return WriteText(w, r)
	}

	return fmt.Errorf("unknown export format: %s", format)
}
