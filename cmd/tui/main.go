package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mpsousa/flatbill/cmd/tui/internal/view"
	"github.com/mpsousa/flatbill/internal/auth"
	"github.com/mpsousa/flatbill/internal/bill"
	billStore "github.com/mpsousa/flatbill/internal/bill/store"
	"github.com/mpsousa/flatbill/internal/config"
	"github.com/mpsousa/flatbill/internal/database"
	"github.com/mpsousa/flatbill/internal/invitation"
	invitationStore "github.com/mpsousa/flatbill/internal/invitation/store"
	"github.com/mpsousa/flatbill/internal/mailer"
	"github.com/mpsousa/flatbill/internal/metrics"
	"github.com/mpsousa/flatbill/internal/party"
	partyStore "github.com/mpsousa/flatbill/internal/party/store"
	"github.com/mpsousa/flatbill/internal/pdf"
)

type model struct {
	billService       *bill.Service
	invitationService *invitation.Service
	partyService      *party.Service

	requester bill.Requester

	currentView View

	loginView       view.LoginModel
	billsView       view.BillsModel
	newBillView     view.NewBillModel
	invitationsView view.InvitationsModel
	flatmatesView   view.FlatmatesModel
}

type View int

const (
	ViewLogin       View = 0
	ViewMenu        View = 1
	ViewBills       View = 2
	ViewNewBill     View = 3
	ViewInvitations View = 4
	ViewFlatmates   View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	smtp, err := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		slog.Error("failed to set up mailer", "error", err)
		os.Exit(1)
	}

	hasher := auth.NewBcryptHasher()
	parties := partyStore.New(db)

	partySvc := party.NewService(parties, hasher)
	invitationSvc := invitation.NewService(
		invitationStore.New(db),
		parties,
		invitation.CryptoTokenSource{},
		hasher,
		cfg.App.BaseURL,
	)
	billSvc := bill.NewService(
		billStore.New(db),
		parties,
		pdf.NewRenderer(),
		smtp,
		metrics.New(prometheus.NewRegistry()),
	)

	return model{
		billService:       billSvc,
		invitationService: invitationSvc,
		partyService:      partySvc,
		currentView:       ViewLogin,
		loginView:         view.NewLoginModel(partySvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
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
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.billService, m.requester)

				return m, m.billsView.Init()
			case "2":
				m.currentView = ViewNewBill
				m.newBillView = view.NewNewBillModel(m.billService, m.partyService, m.requester)

				return m, m.newBillView.Init()
			case "3":
				m.currentView = ViewInvitations
				m.invitationsView = view.NewInvitationsModel(m.invitationService, m.requester.PartyID)

				return m, m.invitationsView.Init()
			case "4":
				m.currentView = ViewFlatmates
				m.flatmatesView = view.NewFlatmatesModel(m.partyService, m.requester.PartyID)

				return m, m.flatmatesView.Init()
			}
		}
	case view.LoginDoneMsg:
		m.requester = msg.Requester
		m.currentView = ViewMenu
		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewNewBill:
		var newModel tea.Model
		newModel, cmd = m.newBillView.Update(msg)
		m.newBillView = newModel.(view.NewBillModel)
	case ViewInvitations:
		var newModel tea.Model
		newModel, cmd = m.invitationsView.Update(msg)
		m.invitationsView = newModel.(view.InvitationsModel)
	case ViewFlatmates:
		var newModel tea.Model
		newModel, cmd = m.flatmatesView.Update(msg)
		m.flatmatesView = newModel.(view.FlatmatesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Flatbill Owner Console\n\n" +
				"1. Bills\n" +
				"2. New Bill\n" +
				"3. Invitations\n" +
				"4. Flatmates\n\n" +
				"q. Quit",
		)
	case ViewBills:
		return m.billsView.View()
	case ViewNewBill:
		return m.newBillView.View()
	case ViewInvitations:
		return m.invitationsView.View()
	case ViewFlatmates:
		return m.flatmatesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
