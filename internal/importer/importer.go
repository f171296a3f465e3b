// Package importer turns spreadsheet exports into transaction parameters.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var ErrNoHeader = errors.New("no ledger header found: expected date, description and amount columns")

var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	time.RFC3339,
}

// Parser reads ledger CSV files. Rows without a parseable date (titles,
// footers, balance lines) are skipped.
type Parser struct {
	// DefaultPaidBy is used for rows that do not name a person.
	DefaultPaidBy string
}

func NewParser(defaultPaidBy string) *Parser {
	return &Parser{DefaultPaidBy: strings.TrimSpace(defaultPaidBy)}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := toUTF8(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	for _, sep := range []rune{';', ','} {
		rows, err := readRows(data, sep)
		if err != nil {
			return nil, err
		}

		l, headerIdx := findHeader(rows)
		if l == nil {
			continue
		}

		slog.Debug("importing csv", "charset", charset, "separator", string(sep), "header_row", headerIdx+1)

		return p.parseRows(l, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoHeader
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	return rows, nil
}

func findHeader(rows [][]string) (layout, int) {
	for i, row := range rows {
		if l := headerLayout(row); l.complete() {
			return l, i
		}
	}

	return nil, 0
}

// parseRows builds params from the rows after the header. headerRow is the
// 0-based header position, used to report 1-based line numbers.
func (p *Parser) parseRows(l layout, rows [][]string, headerRow int) ([]transaction.CreateParams, error) {
	var out []transaction.CreateParams

	for i, row := range rows {
		line := headerRow + i + 2

		date, ok := parseDate(l.cell(row, colDate))
		if !ok {
			continue
		}

		desc := l.cell(row, colDescription)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		params, ok, err := p.amount(l, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if !ok {
			continue
		}

		params.Description = desc
		params.Date = date
		params.Category = l.cell(row, colCategory)

		params.PaidBy = l.cell(row, colPaidBy)
		if params.PaidBy == "" {
			params.PaidBy = p.DefaultPaidBy
		}

		out = append(out, params)
	}

	return out, nil
}

// amount resolves type and absolute amount. ok is false for rows that carry
// no money movement.
func (p *Parser) amount(l layout, row []string) (transaction.CreateParams, bool, error) {
	var params transaction.CreateParams

	if !l.has(colAmount) {
		return splitAmount(l, row)
	}

	raw := l.cell(row, colAmount)
	if raw == "" {
		return params, false, nil
	}

	amount, err := parseAmount(raw)
	if err != nil {
		return params, false, fmt.Errorf("invalid amount %q", raw)
	}

	if amount.IsZero() {
		return params, false, nil
	}

	params.Type = transaction.TypeIncome
	if amount.IsNegative() {
		params.Type = transaction.TypeExpense
	}

	if t := transaction.Type(strings.ToLower(l.cell(row, colType))); t.Valid() {
		params.Type = t
	}

	params.Amount = amount.Abs()

	return params, true, nil
}

func splitAmount(l layout, row []string) (transaction.CreateParams, bool, error) {
	for _, c := range []struct {
		col column
		typ transaction.Type
	}{
		{colDebit, transaction.TypeExpense},
		{colCredit, transaction.TypeIncome},
	} {
		raw := l.cell(row, c.col)
		if raw == "" {
			continue
		}

		amount, err := parseAmount(raw)
		if err != nil {
			return transaction.CreateParams{}, false, fmt.Errorf("invalid amount %q", raw)
		}

		if !amount.IsZero() {
			return transaction.CreateParams{Type: c.typ, Amount: amount.Abs()}, true, nil
		}
	}

	return transaction.CreateParams{}, false, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
