package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/party"
)

type FlatmatesModel struct {
	CommonModel
	partyService *party.Service
	ownerID      uuid.UUID

	table     table.Model
	flatmates []*party.Party

	loading bool
	err     error
	status  string
}

func NewFlatmatesModel(partySvc *party.Service, ownerID uuid.UUID) FlatmatesModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 30},
		{Title: "Joined", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return FlatmatesModel{
		partyService: partySvc,
		ownerID:      ownerID,
		table:        t,
	}
}

func (m FlatmatesModel) Title() string { return "Flatmates" }
func (m FlatmatesModel) ShortHelp() string {
	return "Esc: back | x: remove | r: refresh"
}

func (m FlatmatesModel) Init() tea.Cmd {
	return m.loadFlatmatesCmd()
}

func (m FlatmatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadFlatmatesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.flatmates = msg.flatmates
		m.err = nil
		m.refreshTable()
		return m, nil

	case flatmateRemovedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Flatmate removed"
		}
		return m, m.loadFlatmatesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadFlatmatesCmd()
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.flatmates) {
				return m, m.removeCmd(m.flatmates[idx].ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m FlatmatesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading flatmates...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *FlatmatesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.flatmates))
	for _, f := range m.flatmates {
		rows = append(rows, table.Row{
			f.Name,
			f.Email,
			FormatDate(f.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadFlatmatesMsg struct {
	flatmates []*party.Party
	err       error
}

func (m FlatmatesModel) loadFlatmatesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		flatmates, err := m.partyService.ListFlatmates(ctx, m.ownerID)
		return loadFlatmatesMsg{flatmates: flatmates, err: err}
	}
}

type flatmateRemovedMsg struct {
	err error
}

func (m FlatmatesModel) removeCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.partyService.RemoveFlatmate(ctx, m.ownerID, id); err != nil {
			return flatmateRemovedMsg{err: err}
		}
		return flatmateRemovedMsg{}
	}
}
