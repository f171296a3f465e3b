package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantLen int
		verify  func(t *testing.T, txs []transaction.CreateParams)
		wantErr bool
	}{
		{
			name: "SemicolonWithPreamble",
			csv: `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`,
			wantLen: 2,
			verify: func(t *testing.T, txs []transaction.CreateParams) {
				assert.Equal(t, date(2026, 1, 30), txs[0].Date)
				assert.Equal(t, "INSTITUTO GESTAO FINA", txs[0].Description)
				assert.Equal(t, "588.74", txs[0].Amount.StringFixed(2))
				assert.Equal(t, transaction.TypeExpense, txs[0].Type)
				assert.Equal(t, "Ana", txs[0].PaidBy)

				assert.Equal(t, "8608.52", txs[1].Amount.StringFixed(2))
				assert.Equal(t, transaction.TypeIncome, txs[1].Type)
			},
		},
		{
			name: "CommaSeparatedWithOptionalColumns",
			csv: `Date,Description,Amount,Category,Type,Paid By
2026-03-01,Rent,"1,200.00",housing,expense,Rui
2026-03-02,Refund,15.5,,income,
`,
			wantLen: 2,
			verify: func(t *testing.T, txs []transaction.CreateParams) {
				assert.Equal(t, "1200.00", txs[0].Amount.StringFixed(2))
				assert.Equal(t, transaction.TypeExpense, txs[0].Type)
				assert.Equal(t, "housing", txs[0].Category)
				assert.Equal(t, "Rui", txs[0].PaidBy)

				assert.Equal(t, "15.50", txs[1].Amount.StringFixed(2))
				assert.Equal(t, transaction.TypeIncome, txs[1].Type)
				assert.Equal(t, "Ana", txs[1].PaidBy)
			},
		},
		{
			name: "TypeColumnOverridesSign",
			csv: `Date;Description;Amount;Type
2026-03-01;Dinner;45,00;expense
`,
			wantLen: 1,
			verify: func(t *testing.T, txs []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, txs[0].Type)
				assert.Equal(t, "45.00", txs[0].Amount.StringFixed(2))
			},
		},
		{
			name: "DebitCreditColumns",
			csv: `Data;Descrição;Débito;Crédito
05-02-2026;CONTINENTE;23,40;
06-02-2026;REEMBOLSO;;10,00
07-02-2026;ZERO;0,00;
`,
			wantLen: 2,
			verify: func(t *testing.T, txs []transaction.CreateParams) {
				assert.Equal(t, transaction.TypeExpense, txs[0].Type)
				assert.Equal(t, "23.40", txs[0].Amount.StringFixed(2))
				assert.Equal(t, transaction.TypeIncome, txs[1].Type)
			},
		},
		{
			name: "FooterAndBlankAmountsSkipped",
			csv: `Date;Description;Amount
01/03/2026;Coffee;-1,20
01/03/2026;Pending;
Total;;-1,20
`,
			wantLen: 1,
		},
		{
			name:    "HeaderOnly",
			csv:     "Date;Description;Amount\n",
			wantLen: 0,
		},
		{
			name:    "NoHeader",
			csv:     "foo;bar\n1;2\n",
			wantErr: true,
		},
		{
			name:    "Empty",
			csv:     "",
			wantErr: true,
		},
		{
			name:    "MissingDescription",
			csv:     "Date;Description;Amount\n2026-03-01;;-3,00\n",
			wantErr: true,
		},
		{
			name:    "InvalidAmount",
			csv:     "Date;Description;Amount\n2026-03-01;Taxi;abc\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.NewParser(" Ana ").Parse(strings.NewReader(tt.csv))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestParser_Encodings(t *testing.T) {
	const content = "Data;Descrição;Montante\n2026-01-02;Café;-2,50\n"

	latin1, err := charmap.Windows1252.NewEncoder().String(content)
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(content)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{"UTF8", []byte(content)},
		{"UTF8BOM", append([]byte{0xEF, 0xBB, 0xBF}, content...)},
		{"Windows1252", []byte(latin1)},
		{"UTF16LE", []byte(utf16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := importer.NewParser("Ana").Parse(bytes.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, txs, 1)

			assert.Equal(t, "Café", txs[0].Description)
			assert.Equal(t, "2.50", txs[0].Amount.StringFixed(2))
		})
	}
}

func TestParser_AmountFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		typ  transaction.Type
	}{
		{"1.234,56", "1234.56", transaction.TypeIncome},
		{"-1.234,56", "1234.56", transaction.TypeExpense},
		{"1234.56", "1234.56", transaction.TypeIncome},
		{"1,234.56", "1234.56", transaction.TypeIncome},
		{"1.234.567", "1234567.00", transaction.TypeIncome},
		{"10,5", "10.50", transaction.TypeIncome},
		{"€ -7,99", "7.99", transaction.TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			csv := "Date;Description;Amount\n2026-03-01;Item;\"" + tt.raw + "\"\n"

			txs, err := importer.NewParser("Ana").Parse(strings.NewReader(csv))
			require.NoError(t, err)
			require.Len(t, txs, 1)

			assert.Equal(t, tt.want, txs[0].Amount.StringFixed(2))
			assert.Equal(t, tt.typ, txs[0].Type)
		})
	}
}
