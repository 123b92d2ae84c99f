package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpsousa/flatbill/internal/bill"
	"github.com/mpsousa/flatbill/internal/party"
)

// LoginDoneMsg carries the authenticated owner back to the root model.
type LoginDoneMsg struct {
	Owner     *party.Party
	Requester bill.Requester
}

type LoginModel struct {
	CommonModel
	partyService *party.Service

	form           *huh.Form
	authenticating bool
	err            error

	email    string
	password string
}

func NewLoginModel(partySvc *party.Service) LoginModel {
	m := LoginModel{partyService: partySvc}
	m.form = m.buildForm()
	return m
}

func (m LoginModel) Title() string     { return "Sign In" }
func (m LoginModel) ShortHelp() string { return "Enter: sign in | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(loginResultMsg); ok {
		m.authenticating = false
		if result.err != nil {
			m.err = result.err
			m.password = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}

		return m, func() tea.Msg {
			return LoginDoneMsg{
				Owner: result.owner,
				Requester: bill.Requester{
					PartyID: result.owner.ID,
					Role:    result.owner.Role,
				},
			}
		}
	}

	if m.authenticating {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.authenticating = true
	m.err = nil
	return m, m.signInCmd()
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Flatbill Owner Console")

	body := m.form.View()
	if m.authenticating {
		body = "Signing in..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body)

	if m.err != nil {
		errLine := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Error: %v", m.err))
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", errLine)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

type loginResultMsg struct {
	owner *party.Party
	err   error
}

func (m LoginModel) signInCmd() tea.Cmd {
	email := m.form.GetString("email")
	password := m.form.GetString("password")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		p, err := m.partyService.Authenticate(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}

		if p.Role != party.RoleOwner {
			return loginResultMsg{err: errors.New("only the flat owner can use this console")}
		}

		return loginResultMsg{owner: p}
	}
}
