package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/invitation"
)

type invitationsState int

const (
	invitationsStateBrowse invitationsState = iota
	invitationsStateCreate
)

type InvitationsModel struct {
	CommonModel
	invitationService *invitation.Service
	ownerID           uuid.UUID

	state       invitationsState
	table       table.Model
	invitations []*invitation.Invitation
	form        *huh.Form

	loading bool
	err     error
	status  string
}

func NewInvitationsModel(invSvc *invitation.Service, ownerID uuid.UUID) InvitationsModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 30},
		{Title: "Sent", Width: 12},
		{Title: "Expires", Width: 20},
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

	return InvitationsModel{
		invitationService: invSvc,
		ownerID:           ownerID,
		table:             t,
	}
}

func (m InvitationsModel) Title() string { return "Invitations" }
func (m InvitationsModel) ShortHelp() string {
	if m.state == invitationsStateCreate {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | n: new invitation | x: revoke | r: refresh"
}

func (m InvitationsModel) Init() tea.Cmd {
	return m.loadInvitationsCmd()
}

func (m InvitationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvitationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invitations = msg.invitations
		m.err = nil
		m.refreshTable()
		return m, nil

	case invitationActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.note
		}
		m.state = invitationsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadInvitationsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case invitationsStateBrowse:
		return m.updateBrowse(msg)
	case invitationsStateCreate:
		return m.updateCreate(msg)
	}

	return m, nil
}

func (m InvitationsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadInvitationsCmd()
		case "n":
			return m.enterCreateMode()
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.invitations) {
				return m, m.revokeCmd(m.invitations[idx].ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvitationsModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("flatmate@example.com").
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("must be an email address")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = invitationsStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m InvitationsModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = invitationsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(m.form.GetString("name"), m.form.GetString("email"))
}

func (m InvitationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invitations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == invitationsStateCreate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Invite a Flatmate\n\n%s", m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *InvitationsModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.invitations))
	for _, inv := range m.invitations {
		expires := inv.ExpiresAt.Format("2006-01-02 15:04")
		if inv.Expired(now) {
			expires = "expired"
		}

		rows = append(rows, table.Row{
			inv.Name,
			inv.Email,
			FormatDate(inv.CreatedAt),
			expires,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadInvitationsMsg struct {
	invitations []*invitation.Invitation
	err         error
}

func (m InvitationsModel) loadInvitationsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invitations, err := m.invitationService.List(ctx, m.ownerID)
		return loadInvitationsMsg{invitations: invitations, err: err}
	}
}

type invitationActionMsg struct {
	note string
	err  error
}

func (m InvitationsModel) createCmd(name, email string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invitationService.Create(ctx, m.ownerID, name, email)
		if err != nil {
			return invitationActionMsg{err: err}
		}

		return invitationActionMsg{
			note: fmt.Sprintf("Share this link: %s", m.invitationService.AcceptLink(inv)),
		}
	}
}

func (m InvitationsModel) revokeCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.invitationService.Revoke(ctx, id, m.ownerID); err != nil {
			return invitationActionMsg{err: err}
		}
		return invitationActionMsg{note: "Invitation revoked"}
	}
}
