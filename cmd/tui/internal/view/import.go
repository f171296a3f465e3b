package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStatePayer importState = iota
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	txService  *transaction.Service
	categories *category.Service

	state      importState
	payerForm  *huh.Form
	paidBy     string
	filePicker filepicker.Model

	rows     []transaction.CreateParams
	rowList  list.Model
	selected map[int]bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, categories *category.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		txService:  txSvc,
		categories: categories,
		filePicker: fp,
		selected:   make(map[int]bool),
	}
	m.payerForm = newPayerForm(&m.paidBy)

	return m
}

func newPayerForm(paidBy *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("paidBy").
				Title("Paid by").
				Description("Used for rows without a payer column").
				Placeholder("alice").
				Value(paidBy),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Space: toggle | a: all | n: none | Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.payerForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.rows) == 0 {
			m.state = importStateResult
			m.status = "No transactions found in file."

			return m, nil
		}

		m.rows = msg.rows
		m.selected = make(map[int]bool, len(msg.rows))

		items := make([]list.Item, len(m.rows))
		for i, row := range m.rows {
			m.selected[i] = true
			items[i] = rowItem{params: row, index: i}
		}

		m.rowList = list.New(items, rowDelegate{selected: m.selected}, 80, 20)
		m.rowList.Title = fmt.Sprintf("%d rows parsed, %d categorized", len(m.rows), msg.categorized)
		m.rowList.SetShowStatusBar(false)
		m.rowList.SetFilteringEnabled(false)
		m.rowList.SetShowHelp(false)
		m.state = importStatePreview

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStatePayer:
		return m.updatePayer(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) updatePayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.payerForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.payerForm = f
	}

	if m.payerForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.paidBy = strings.TrimSpace(m.payerForm.GetString("paidBy"))
	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick, importStatePreview, importStateResult:
		m.state = importStatePayer
		m.rows = nil
		m.err = nil
		m.status = ""
		m.payerForm = newPayerForm(&m.paidBy)

		return m, m.payerForm.Init()
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.rowList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.rows {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.rows {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		m.status = "Importing..."
		return m, m.importCmd()
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStatePayer:
		return lipgloss.NewStyle().Padding(1).Render(m.payerForm.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select CSV file to import:\n\n" + m.filePicker.View(),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.rowList.View())
	case importStateResult:
		status := okStyle(m.status)
		if m.err != nil {
			status = errorStyle(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(status + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type parseResultMsg struct {
	rows        []transaction.CreateParams
	categorized int
	err         error
}

type importResultMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	paidBy, categories := m.paidBy, m.categories

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		rows, err := importer.NewParser(paidBy).Parse(f)
		if err != nil {
			return parseResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		return parseResultMsg{rows: rows, categorized: categories.Fill(ctx, rows)}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	var params []transaction.CreateParams

	for i, row := range m.rows {
		if m.selected[i] {
			params = append(params, row)
		}
	}

	return func() tea.Msg {
		if len(params) == 0 {
			return importResultMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(txs)}
	}
}

// Parsed row list item

type rowItem struct {
	params transaction.CreateParams
	index  int
}

func (i rowItem) Title() string       { return i.params.Description }
func (i rowItem) Description() string { return "" }
func (i rowItem) FilterValue() string { return i.params.Description }

type rowDelegate struct {
	selected map[int]bool
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rowItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	p := item.params

	fmt.Fprintf(w, "%s%s %s  %10s  %-12s %-14s %s",
		cursor, checkbox,
		FormatDate(p.Date),
		FormatSigned(p.Amount, p.Type == transaction.TypeIncome),
		p.PaidBy,
		p.Category,
		p.Description,
	)
}
