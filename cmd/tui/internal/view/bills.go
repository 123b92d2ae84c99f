package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/bill"
)

const notifyTimeout = 2 * time.Minute

type billsState int

const (
	billsStateBrowse billsState = iota
	billsStateDetail
)

type BillsModel struct {
	CommonModel
	billService *bill.Service
	requester   bill.Requester

	state billsState
	table table.Model
	bills []*bill.Bill

	selected *bill.Bill

	loading bool
	err     error
	status  string
}

func NewBillsModel(billSvc *bill.Service, requester bill.Requester) BillsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Units", Width: 10},
		{Title: "Total", Width: 10},
		{Title: "Parties", Width: 8},
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

	return BillsModel{
		billService: billSvc,
		requester:   requester,
		table:       t,
	}
}

func (m BillsModel) Title() string { return "Bills" }
func (m BillsModel) ShortHelp() string {
	if m.state == billsStateDetail {
		return "Esc: back to list | n: resend notifications | x: delete"
	}
	return "Esc: back | Enter: detail | n: resend notifications | x: delete | r: refresh"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.bills = msg.bills
		m.err = nil
		m.refreshTable()
		return m, nil

	case billActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.note
		}
		m.state = billsStateBrowse
		m.selected = nil
		m.table.Focus()
		return m, m.loadBillsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case billsStateBrowse:
		return m.updateBrowse(msg)
	case billsStateDetail:
		return m.updateDetail(msg)
	}

	return m, nil
}

func (m BillsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadBillsCmd()
		case "enter":
			if b := m.cursorBill(); b != nil {
				m.selected = b
				m.state = billsStateDetail
				m.table.Blur()
			}
			return m, nil
		case "n":
			if b := m.cursorBill(); b != nil {
				m.status = "Resending notifications..."
				return m, m.notifyCmd(b.ID)
			}
			return m, nil
		case "x":
			if b := m.cursorBill(); b != nil {
				return m, m.deleteCmd(b.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BillsModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = billsStateBrowse
			m.selected = nil
			m.table.Focus()
			return m, nil
		case "n":
			m.status = "Resending notifications..."
			return m, m.notifyCmd(m.selected.ID)
		case "x":
			return m, m.deleteCmd(m.selected.ID)
		}
	}

	return m, nil
}

func (m BillsModel) cursorBill() *bill.Bill {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return nil
	}
	return m.bills[idx]
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == billsStateDetail && m.selected != nil {
		return m.viewDetail()
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

func (m BillsModel) viewDetail() string {
	b := m.selected

	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Bill of %s", FormatDate(b.CreatedAt)),
	)

	lines := []string{
		header,
		"",
		fmt.Sprintf("Master reading: %s units", FormatUnits(b.MasterReading)),
		fmt.Sprintf("Total amount:   %s", FormatMoney(b.ActualBill)),
		"",
	}

	for _, d := range b.Details {
		lines = append(lines, fmt.Sprintf(
			"%-20s %8s units %10s",
			d.Name, FormatUnits(d.Reading), FormatMoney(d.Amount),
		))
	}

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

func (m *BillsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		rows = append(rows, table.Row{
			FormatDate(b.CreatedAt),
			FormatUnits(b.MasterReading),
			FormatMoney(b.ActualBill),
			fmt.Sprintf("%d", len(b.Details)),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadBillsMsg struct {
	bills []*bill.Bill
	err   error
}

func (m BillsModel) loadBillsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.billService.List(ctx, m.requester)
		return loadBillsMsg{bills: bills, err: err}
	}
}

type billActionMsg struct {
	note string
	err  error
}

func (m BillsModel) notifyCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := m.billService.Notify(ctx, m.requester, id); err != nil {
			return billActionMsg{err: err}
		}
		return billActionMsg{note: "Notifications sent"}
	}
}

func (m BillsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.billService.Delete(ctx, m.requester, id); err != nil {
			return billActionMsg{err: err}
		}
		return billActionMsg{note: "Bill deleted"}
	}
}
