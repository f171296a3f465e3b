package view

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/group"
)

type groupsState int

const (
	groupsStateList groupsState = iota
	groupsStateBalances
	groupsStateAdjust
)

// GroupsModel lists groups and drills into the member balances of one.
type GroupsModel struct {
	CommonModel
	groupService   *group.Service
	balanceService *balance.Service

	state    groupsState
	groups   []*group.Group
	table    table.Model
	balances *balance.GroupBalances
	members  table.Model
	form     *huh.Form

	formValue string
	status    string
	err       error
}

func NewGroupsModel(groupSvc *group.Service, balanceSvc *balance.Service) GroupsModel {
	return GroupsModel{
		groupService:   groupSvc,
		balanceService: balanceSvc,
		table: newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Members", Width: 8},
			{Title: "Description", Width: 40},
		}, 12, true),
		members: newTable([]table.Column{
			{Title: "Member", Width: 20},
			{Title: "Opening", Width: 12},
			{Title: "Owed", Width: 12},
			{Title: "Settled", Width: 12},
			{Title: "Balance", Width: 12},
		}, 12, false),
	}
}

func (m GroupsModel) Title() string { return "Groups & Balances" }

func (m GroupsModel) ShortHelp() string {
	switch m.state {
	case groupsStateBalances:
		return "Esc: groups | o: set opening balance | r: refresh"
	case groupsStateAdjust:
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: balances | r: refresh"
}

func (m GroupsModel) Init() tea.Cmd {
	return m.loadGroupsCmd()
}

func (m GroupsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGroupsMsg:
		m.err = msg.err
		m.groups = msg.groups

		rows := make([]table.Row, 0, len(msg.groups))
		for _, g := range msg.groups {
			rows = append(rows, table.Row{g.Name, strconv.Itoa(g.MemberCount), g.Description})
		}

		m.table.SetRows(rows)

		return m, nil

	case loadBalancesMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}

		m.balances = msg.balances
		m.refreshMembers()
		m.state = groupsStateBalances
		m.table.Blur()
		m.members.Focus()

		return m, nil

	case adjustResultMsg:
		m.state = groupsStateBalances
		m.form = nil
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		return m, m.loadBalancesCmd(m.balances.GroupID)
	}

	switch m.state {
	case groupsStateList:
		return m.updateList(msg)
	case groupsStateBalances:
		return m.updateBalances(msg)
	case groupsStateAdjust:
		return m.updateAdjust(msg)
	}

	return m, nil
}

func (m GroupsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadGroupsCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.groups) {
				return m, nil
			}

			return m, m.loadBalancesCmd(m.groups[idx].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m GroupsModel) updateBalances(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = groupsStateList
			m.status = ""
			m.members.Blur()
			m.table.Focus()

			return m, nil
		case "r":
			return m, m.loadBalancesCmd(m.balances.GroupID)
		case "o":
			return m.enterAdjust()
		}
	}

	var cmd tea.Cmd
	m.members, cmd = m.members.Update(msg)

	return m, cmd
}

func (m GroupsModel) selectedMember() *balance.MemberBalance {
	idx := m.members.Cursor()
	if m.balances == nil || idx < 0 || idx >= len(m.balances.Members) {
		return nil
	}

	return &m.balances.Members[idx]
}

func (m GroupsModel) enterAdjust() (tea.Model, tea.Cmd) {
	member := m.selectedMember()
	if member == nil {
		return m, nil
	}

	m.formValue = FormatAmount(member.OpeningBalance)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("value").
				Title("Opening balance for " + member.Name).
				Description("Negative values mean the member starts in debt").
				Value(&m.formValue).
				Validate(func(s string) error {
					if _, err := decimal.NewFromString(s); err != nil {
						return errors.New("enter a number such as 25.00 or -10")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = groupsStateAdjust

	return m, m.form.Init()
}

func (m GroupsModel) updateAdjust(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = groupsStateBalances
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.adjustCmd()
}

func (m *GroupsModel) refreshMembers() {
	rows := make([]table.Row, 0, len(m.balances.Members))

	for _, mb := range m.balances.Members {
		rows = append(rows, table.Row{
			mb.Name,
			FormatAmount(mb.OpeningBalance),
			FormatAmount(mb.Owed),
			FormatAmount(mb.Settled),
			FormatAmount(mb.Balance),
		})
	}

	m.members.SetRows(rows)
}

func (m GroupsModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == groupsStateList {
		if len(m.groups) == 0 {
			return lipgloss.NewStyle().Padding(2).Render("No groups yet.\n\n(Esc to go back)")
		}

		return lipgloss.NewStyle().Padding(1).Render(m.table.View())
	}

	header := fmt.Sprintf("Total shared: %s", activeStyle(FormatAmount(m.balances.TotalShared)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.members.View(),
	)

	if len(m.balances.Unattributed) > 0 {
		lines := "Unattributed shares:"
		for _, u := range m.balances.Unattributed {
			lines += fmt.Sprintf("\n  %s owes %s", u.Name, FormatAmount(u.Owed))
		}

		content = lipgloss.JoinVertical(lipgloss.Left, content, "", lipgloss.NewStyle().Faint(true).Render(lines))
	}

	if m.state == groupsStateAdjust && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadGroupsMsg struct {
	groups []*group.Group
	err    error
}

func (m GroupsModel) loadGroupsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		groups, err := m.groupService.List(ctx)

		return loadGroupsMsg{groups: groups, err: err}
	}
}

type loadBalancesMsg struct {
	balances *balance.GroupBalances
	err      error
}

func (m GroupsModel) loadBalancesCmd(groupID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.balanceService.GroupBalances(ctx, groupID)

		return loadBalancesMsg{balances: balances, err: err}
	}
}

type adjustResultMsg struct {
	status string
	err    error
}

func (m GroupsModel) adjustCmd() tea.Cmd {
	member := m.selectedMember()
	if member == nil {
		return nil
	}

	groupID, memberID := m.balances.GroupID, member.MemberID
	raw := m.form.GetString("value")

	return func() tea.Msg {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return adjustResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		adj, err := m.balanceService.AdjustOpeningBalance(ctx, groupID, memberID, value)
		if err != nil {
			return adjustResultMsg{err: err}
		}

		if !adj.Changed {
			return adjustResultMsg{status: "Opening balance unchanged."}
		}

		return adjustResultMsg{status: fmt.Sprintf(
			"%s: %s -> %s", adj.Member.Name, FormatAmount(adj.Previous), FormatAmount(adj.Member.OpeningBalance),
		)}
	}
}
