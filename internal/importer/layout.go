package importer

import "strings"

// column identifies a ledger field a header cell can map to.
type column int

const (
	colDate column = iota
	colDescription
	colAmount
	colDebit
	colCredit
	colCategory
	colType
	colPaidBy
)

// aliases lists accepted header names per column, compared lowercased and
// trimmed. Portuguese names cover exports from the bank portals we started with.
var aliases = map[column][]string{
	colDate:        {"date", "data", "data mov.", "data mov", "transaction date"},
	colDescription: {"description", "descrição", "descricao", "desc", "memo"},
	colAmount:      {"amount", "montante", "movimento", "valor", "value"},
	colDebit:       {"debit", "débito", "debito"},
	colCredit:      {"credit", "crédito", "credito"},
	colCategory:    {"category", "categoria"},
	colType:        {"type", "tipo"},
	colPaidBy:      {"paid by", "paidby", "paid_by", "person", "pessoa", "pago por"},
}

var lookup = func() map[string]column {
	m := make(map[string]column)

	for col, names := range aliases {
		for _, n := range names {
			m[n] = col
		}
	}

	return m
}()

// layout records where each recognised column sits in a row.
type layout map[column]int

func (l layout) has(c column) bool {
	_, ok := l[c]
	return ok
}

// complete reports whether the row carries enough to build a transaction:
// a date, a description and either a signed amount or a debit/credit pair.
func (l layout) complete() bool {
	if !l.has(colDate) || !l.has(colDescription) {
		return false
	}

	return l.has(colAmount) || (l.has(colDebit) && l.has(colCredit))
}

func (l layout) cell(row []string, c column) string {
	idx, ok := l[c]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

// headerLayout maps a row's cells to columns. The first cell matching a
// column wins.
func headerLayout(row []string) layout {
	l := make(layout)

	for i, cell := range row {
		col, ok := lookup[strings.ToLower(strings.TrimSpace(cell))]
		if !ok || l.has(col) {
			continue
		}

		l[col] = i
	}

	return l
}
