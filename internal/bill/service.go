package bill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/allocation"
	"github.com/mpsousa/flatbill/internal/metrics"
	"github.com/mpsousa/flatbill/internal/party"
)

const notifySubject = "Monthly Electricity Bill"

//go:generate mockgen -source=service.go -destination=service_mock.go -package=bill
type Repository interface {
	BeginCreate(ctx context.Context) (CreateTx, error)
	GetBill(ctx context.Context, id uuid.UUID) (*Bill, error)
	ListBills(ctx context.Context, ownerID uuid.UUID) ([]*Bill, error)
	ListFlatmateBills(ctx context.Context, partyID uuid.UUID) ([]*FlatmateBill, error)
	DeleteBill(ctx context.Context, id uuid.UUID) error
}

// CreateTx inserts a bill and all its details as one atomic unit.
type CreateTx interface {
	CreateBill(ctx context.Context, b *Bill) error
	Commit() error
	Rollback() error
}

// Notifier delivers a rendered bill summary to one recipient.
type Notifier interface {
	Send(ctx context.Context, recipientEmail, recipientName, subject, body string, document []byte) error
}

// Renderer produces the bill summary document sent to each recipient.
type Renderer interface {
	RenderBill(b *Bill, recipientName string) ([]byte, error)
}

// PartyDirectory resolves party identities to their registered emails.
type PartyDirectory interface {
	GetParty(ctx context.Context, id uuid.UUID) (*party.Party, error)
}

// Requester identifies the caller of a bill operation.
type Requester struct {
	PartyID uuid.UUID
	Role    party.Role
}

type Service struct {
	repo     Repository
	parties  PartyDirectory
	renderer Renderer
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewService(repo Repository, parties PartyDirectory, renderer Renderer, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		parties:  parties,
		renderer: renderer,
		notifier: notifier,
		metrics:  m,
	}
}

type CreateParams struct {
	MasterReading float64
	ActualBill    float64
	SubReadings   []allocation.SubReading
}

// Create computes the allocation, persists the bill with its details
// atomically, and notifies every flatmate. If any notification fails the
// whole bill is deleted again: a bill nobody was told about is treated as
// worse than no bill.
func (s *Service) Create(ctx context.Context, requester Requester, params CreateParams) (*Bill, error) {
	if requester.Role != party.RoleOwner {
		return nil, ErrPermission
	}

	owner, err := s.parties.GetParty(ctx, requester.PartyID)
	if err != nil {
		return nil, &DependencyError{Op: "resolving owner", Err: err}
	}

	result, err := allocation.Compute(
		params.MasterReading,
		params.ActualBill,
		allocation.SubReading{PartyID: owner.ID, Name: owner.Name},
		params.SubReadings,
	)
	if err != nil {
		return nil, err
	}

	b := &Bill{
		OwnerID:       owner.ID,
		MasterReading: params.MasterReading,
		ActualBill:    params.ActualBill,
	}

	for _, share := range result.Shares {
		detail := Detail{
			Name:    share.Name,
			Reading: share.Reading,
			Amount:  share.Amount,
		}

		if share.PartyID != uuid.Nil {
			detail.PartyID = new(share.PartyID)
		}

		b.Details = append(b.Details, detail)
	}

	tx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, &DependencyError{Op: "begin create", Err: err}
	}
	defer tx.Rollback()

	if err := tx.CreateBill(ctx, b); err != nil {
		return nil, &DependencyError{Op: "persisting bill", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &DependencyError{Op: "committing bill", Err: err}
	}

	s.metrics.BillsCreated.Inc()

	if err := s.notifyFlatmates(ctx, b); err != nil {
		// Compensating delete: the bill is only valid if everyone was told.
		if delErr := s.repo.DeleteBill(ctx, b.ID); delErr != nil {
			slog.Error("failed to delete bill after notification failure",
				"bill_id", b.ID, "error", delErr)
		}

		return nil, err
	}

	return b, nil
}

// repoErr normalizes a repository failure: domain sentinels pass through,
// anything else is a collaborator failure.
func repoErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}

	return &DependencyError{Op: op, Err: err}
}

// Notify re-delivers an existing bill to all its flatmates. Unlike Create
// it never deletes the bill on failure, so it is safe to retry.
func (s *Service) Notify(ctx context.Context, requester Requester, billID uuid.UUID) error {
	b, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		return repoErr("loading bill", err)
	}

	if requester.Role != party.RoleOwner || b.OwnerID != requester.PartyID {
		return ErrPermission
	}

	return s.notifyFlatmates(ctx, b)
}

func (s *Service) notifyFlatmates(ctx context.Context, b *Bill) error {
	for _, d := range b.Details {
		if d.PartyID == nil || *d.PartyID == b.OwnerID {
			continue
		}

		recipient, err := s.parties.GetParty(ctx, *d.PartyID)
		if err != nil {
			s.metrics.NotificationsFailed.Inc()
			return &DependencyError{Op: fmt.Sprintf("resolving recipient %s", d.Name), Err: err}
		}

		document, err := s.renderer.RenderBill(b, d.Name)
		if err != nil {
			s.metrics.NotificationsFailed.Inc()
			return &DependencyError{Op: fmt.Sprintf("rendering bill for %s", d.Name), Err: err}
		}

		body := fmt.Sprintf("Bill %s, %s, Amount: $%.2f",
			b.ID, b.CreatedAt.Format("January 2, 2006"), d.Amount)

		if err := s.notifier.Send(ctx, recipient.Email, d.Name, notifySubject, body, document); err != nil {
			s.metrics.NotificationsFailed.Inc()
			return &DependencyError{Op: fmt.Sprintf("notifying %s", d.Name), Err: err}
		}

		s.metrics.NotificationsSent.Inc()
	}

	return nil
}

// Get returns the bill as visible to the requester: owners see every
// detail of their own bills, flatmates only their own line.
func (s *Service) Get(ctx context.Context, requester Requester, billID uuid.UUID) (*Bill, error) {
	b, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		return nil, repoErr("loading bill", err)
	}

	switch requester.Role {
	case party.RoleOwner:
		if b.OwnerID != requester.PartyID {
			return nil, ErrPermission
		}

		return b, nil

	case party.RoleFlatmate:
		for _, d := range b.Details {
			if d.PartyID != nil && *d.PartyID == requester.PartyID {
				view := *b
				view.Details = []Detail{d}

				return &view, nil
			}
		}

		return nil, ErrPermission
	}

	return nil, ErrPermission
}

// RenderPDF renders the bill summary document for the requester's view of
// the bill: owners get the full readings table, flatmates only their own
// line.
func (s *Service) RenderPDF(ctx context.Context, requester Requester, billID uuid.UUID) ([]byte, error) {
	b, err := s.Get(ctx, requester, billID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.parties.GetParty(ctx, requester.PartyID)
	if err != nil {
		return nil, &DependencyError{Op: "resolving recipient", Err: err}
	}

	document, err := s.renderer.RenderBill(b, recipient.Name)
	if err != nil {
		return nil, &DependencyError{Op: "rendering bill", Err: err}
	}

	return document, nil
}

// List returns the requester's bills, newest first.
func (s *Service) List(ctx context.Context, requester Requester) ([]*Bill, error) {
	if requester.Role != party.RoleOwner {
		return nil, ErrPermission
	}

	bills, err := s.repo.ListBills(ctx, requester.PartyID)
	if err != nil {
		return nil, repoErr("listing bills", err)
	}

	return bills, nil
}

// ListForFlatmate returns the requester's own shares across all bills.
func (s *Service) ListForFlatmate(ctx context.Context, requester Requester) ([]*FlatmateBill, error) {
	if requester.Role != party.RoleFlatmate {
		return nil, ErrPermission
	}

	fbills, err := s.repo.ListFlatmateBills(ctx, requester.PartyID)
	if err != nil {
		return nil, repoErr("listing flatmate bills", err)
	}

	return fbills, nil
}

// Delete removes a bill and, by cascade, its details. Only the owning
// owner may delete.
func (s *Service) Delete(ctx context.Context, requester Requester, billID uuid.UUID) error {
	if requester.Role != party.RoleOwner {
		return ErrPermission
	}

	b, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		return repoErr("loading bill", err)
	}

	if b.OwnerID != requester.PartyID {
		return ErrPermission
	}

	if err := s.repo.DeleteBill(ctx, billID); err != nil {
		return repoErr("deleting bill", err)
	}

	return nil
}

// IsDependencyError reports whether err originated in a collaborator
// rather than in domain validation.
func IsDependencyError(err error) bool {
	var depErr *DependencyError

	return errors.As(err, &depErr)
}
