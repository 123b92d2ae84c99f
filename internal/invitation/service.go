package invitation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/party"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=invitation
type Repository interface {
	CreateInvitation(ctx context.Context, inv *Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	ListInvitations(ctx context.Context, ownerID uuid.UUID) ([]*Invitation, error)
	RevokeInvitation(ctx context.Context, id, ownerID uuid.UUID) error

	BeginAccept(ctx context.Context) (AcceptTx, error)
}

// AcceptTx makes consuming an invitation and creating the flatmate account
// a single atomic unit. ConsumeInvitation deletes the invitation row; when
// two accepts race, exactly one sees the row and the loser gets
// ErrInvalidToken.
type AcceptTx interface {
	ConsumeInvitation(ctx context.Context, token string) (*Invitation, error)
	CreateFlatmate(ctx context.Context, p *party.Party) error
	Commit() error
	Rollback() error
}

// PartyDirectory is the slice of the party store the lifecycle needs.
type PartyDirectory interface {
	GetPartyByEmail(ctx context.Context, email string) (*party.Party, error)
}

type Service struct {
	repo    Repository
	parties PartyDirectory
	tokens  TokenSource
	hasher  party.Hasher
	baseURL string
}

func NewService(repo Repository, parties PartyDirectory, tokens TokenSource, hasher party.Hasher, baseURL string) *Service {
	return &Service{
		repo:    repo,
		parties: parties,
		tokens:  tokens,
		hasher:  hasher,
		baseURL: baseURL,
	}
}

// Create issues a new invitation for the given owner and returns it.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name, email string) (*Invitation, error) {
	_, err := s.parties.GetPartyByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateAccount
	}

	if !errors.Is(err, party.ErrNotFound) {
		return nil, &DependencyError{Op: "checking for existing account", Err: err}
	}

	token, err := s.tokens.Token()
	if err != nil {
		return nil, &DependencyError{Op: "generating invitation token", Err: err}
	}

	inv := &Invitation{
		OwnerID:   ownerID,
		Name:      name,
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(TTL),
	}

	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, &DependencyError{Op: "creating invitation", Err: err}
	}

	return inv, nil
}

// AcceptLink builds the shareable URL that completes the invitation.
func (s *Service) AcceptLink(inv *Invitation) string {
	return fmt.Sprintf("%s/accept-invitation?token=%s", s.baseURL, url.QueryEscape(inv.Token))
}

// Validate looks up an invitation by token and checks it is still usable.
func (s *Service) Validate(ctx context.Context, token string) (*Invitation, error) {
	inv, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, &DependencyError{Op: "loading invitation", Err: err}
	}

	if inv.Expired(time.Now()) {
		return nil, ErrExpired
	}

	return inv, nil
}

// Accept consumes the invitation and creates the flatmate account in one
// transaction. The token cannot be replayed after success.
func (s *Service) Accept(ctx context.Context, token, password string) (*party.Party, error) {
	inv, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		return nil, party.ErrWeakPassword
	}

	// An account may have appeared since the invitation was issued.
	if _, err := s.parties.GetPartyByEmail(ctx, inv.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, party.ErrNotFound) {
		return nil, &DependencyError{Op: "checking for existing account", Err: err}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, &DependencyError{Op: "hashing password", Err: err}
	}

	tx, err := s.repo.BeginAccept(ctx)
	if err != nil {
		return nil, &DependencyError{Op: "begin accept", Err: err}
	}
	defer tx.Rollback()

	consumed, err := tx.ConsumeInvitation(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, err
		}

		return nil, &DependencyError{Op: "consuming invitation", Err: err}
	}

	p := &party.Party{
		Name:         consumed.Name,
		Email:        consumed.Email,
		Role:         party.RoleFlatmate,
		OwnerID:      &consumed.OwnerID,
		PasswordHash: hash,
	}

	if err := tx.CreateFlatmate(ctx, p); err != nil {
		if errors.Is(err, party.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}

		return nil, &DependencyError{Op: "creating flatmate account", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &DependencyError{Op: "commit accept", Err: err}
	}

	return p, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Invitation, error) {
	invs, err := s.repo.ListInvitations(ctx, ownerID)
	if err != nil {
		return nil, &DependencyError{Op: "listing invitations", Err: err}
	}

	return invs, nil
}

// Revoke cancels a pending invitation. Only the issuing owner may revoke.
func (s *Service) Revoke(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.repo.RevokeInvitation(ctx, id, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}

		return &DependencyError{Op: "revoking invitation", Err: err}
	}

	return nil
}
