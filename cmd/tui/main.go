package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/balance"
	balanceStore "github.com/MrJamesThe3rd/tally/internal/balance/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/group"
	groupStore "github.com/MrJamesThe3rd/tally/internal/group/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type services struct {
	transactions *transaction.Service
	groups       *group.Service
	balances     *balance.Service
	export       *export.Service
	categories   *category.Service
}

type model struct {
	svc services

	currentView View

	listView   view.ListModel
	importView view.ImportModel
	exportView view.ExportModel
	groupsView view.GroupsModel
}

type View int

const (
	ViewMenu   View = 0
	ViewList   View = 1
	ViewImport View = 2
	ViewExport View = 3
	ViewGroups View = 4
)

func newModel(svc services) model {
	return model{
		svc:         svc,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.svc.transactions, m.svc.categories)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc.transactions, m.svc.categories)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc.export)

				return m, m.exportView.Init()
			case "4":
				m.currentView = ViewGroups
				m.groupsView = view.NewGroupsModel(m.svc.groups, m.svc.balances)

				return m, m.groupsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewGroups:
		var newModel tea.Model
		newModel, cmd = m.groupsView.Update(msg)
		m.groupsView = newModel.(view.GroupsModel)
	}

	return m, cmd
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewList:
		return m.listView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	case ViewGroups:
		return m.groupsView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally\n\n" +
				"1. Transactions\n" +
				"2. Import CSV\n" +
				"3. Export Ledger\n" +
				"4. Groups & Balances\n\n" +
				"q. Quit",
		)
	}

	v := m.active()
	if v == nil {
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Padding(0, 1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := tea.LogToFile(filepath.Join(os.TempDir(), "tally-tui.log"), "tally")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString(), database.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	// Changes made here reach API listeners only through the broker.
	var pub events.Publisher = events.Nop{}

	if cfg.AMQP.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Warn("broker unavailable, changes will not be announced", "error", err)
		} else {
			defer amqpPub.Close()
			pub = amqpPub
		}
	}

	txSvc := transaction.NewService(txStore.New(db), pub)

	svc := services{
		transactions: txSvc,
		groups:       group.NewService(groupStore.New(db), pub),
		balances:     balance.NewService(balanceStore.New(db), pub),
		export:       export.NewService(txSvc),
		categories:   category.NewService(categoryStore.New(db)),
	}

	if _, err := tea.NewProgram(newModel(svc), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("tui stopped", "error", err)
		os.Exit(1)
	}
}
