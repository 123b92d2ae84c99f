package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mpsousa/flatbill/internal/allocation"
	"github.com/mpsousa/flatbill/internal/bill"
	"github.com/mpsousa/flatbill/internal/party"
)

type newBillState int

const (
	newBillStateLoading newBillState = iota
	newBillStateForm
	newBillStateSubmitting
	newBillStateResult
)

type NewBillModel struct {
	CommonModel
	billService  *bill.Service
	partyService *party.Service
	requester    bill.Requester

	state     newBillState
	err       error
	flatmates []*party.Party

	form    *huh.Form
	spinner spinner.Model
	created *bill.Bill
}

func NewNewBillModel(billSvc *bill.Service, partySvc *party.Service, requester bill.Requester) NewBillModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return NewBillModel{
		billService:  billSvc,
		partyService: partySvc,
		requester:    requester,
		state:        newBillStateLoading,
		spinner:      s,
	}
}

func (m NewBillModel) Title() string { return "New Bill" }

func (m NewBillModel) ShortHelp() string {
	switch m.state {
	case newBillStateResult:
		return "Esc: back to menu"
	case newBillStateSubmitting:
		return "Saving and notifying..."
	}
	return "Esc: back | Enter: next field"
}

func (m NewBillModel) Init() tea.Cmd {
	return m.loadFlatmatesCmd()
}

func (m NewBillModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case newBillFlatmatesMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = newBillStateResult
			return m, nil
		}
		m.flatmates = msg.flatmates
		m.form = m.buildForm()
		m.state = newBillStateForm
		return m, m.form.Init()

	case newBillResultMsg:
		m.state = newBillStateResult
		m.err = msg.err
		m.created = msg.bill
		return m, nil
	}

	switch m.state {
	case newBillStateForm:
		return m.updateForm(msg)
	case newBillStateSubmitting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case newBillStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m NewBillModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = newBillStateSubmitting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func validReading(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func (m NewBillModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("master").
			Title("Master meter reading").
			Placeholder("100").
			Validate(validReading),

		huh.NewInput().
			Key("total").
			Title("Bill total").
			Placeholder("500.00").
			Validate(validReading),
	}

	for i, f := range m.flatmates {
		fields = append(fields, huh.NewInput().
			Key(fmt.Sprintf("reading-%d", i)).
			Title(fmt.Sprintf("%s's reading", f.Name)).
			Placeholder("0").
			Validate(validReading))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(50).WithShowHelp(false)
}

func (m NewBillModel) View() string {
	switch m.state {
	case newBillStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading flatmates...")

	case newBillStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case newBillStateSubmitting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Saving bill and notifying flatmates...", m.spinner.View()),
		)

	case newBillStateResult:
		return m.viewResult()
	}

	return ""
}

func (m NewBillModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Bill Created!")

	lines := []string{header, ""}
	for _, d := range m.created.Details {
		lines = append(lines, fmt.Sprintf(
			"%-20s %8s units %10s",
			d.Name, FormatUnits(d.Reading), FormatMoney(d.Amount),
		))
	}

	lines = append(lines, "", fmt.Sprintf("Total: %s", FormatMoney(m.created.ActualBill)))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// Messages

type newBillFlatmatesMsg struct {
	flatmates []*party.Party
	err       error
}

func (m NewBillModel) loadFlatmatesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		flatmates, err := m.partyService.ListFlatmates(ctx, m.requester.PartyID)
		return newBillFlatmatesMsg{flatmates: flatmates, err: err}
	}
}

type newBillResultMsg struct {
	bill *bill.Bill
	err  error
}

func (m NewBillModel) submitCmd() tea.Cmd {
	parse := func(key string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(m.form.GetString(key)), 64)
		return v
	}

	params := bill.CreateParams{
		MasterReading: parse("master"),
		ActualBill:    parse("total"),
	}

	for i, f := range m.flatmates {
		params.SubReadings = append(params.SubReadings, allocation.SubReading{
			PartyID: f.ID,
			Name:    f.Name,
			Reading: parse(fmt.Sprintf("reading-%d", i)),
		})
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		b, err := m.billService.Create(ctx, m.requester, params)
		return newBillResultMsg{bill: b, err: err}
	}
}
