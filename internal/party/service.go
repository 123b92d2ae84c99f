package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=party
type Repository interface {
	CreateParty(ctx context.Context, p *Party) error
	GetParty(ctx context.Context, id uuid.UUID) (*Party, error)
	GetPartyByEmail(ctx context.Context, email string) (*Party, error)
	UpdateParty(ctx context.Context, p *Party) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListFlatmates(ctx context.Context, ownerID uuid.UUID) ([]*Party, error)
	DeleteParty(ctx context.Context, id uuid.UUID) error
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type Service struct {
	repo   Repository
	hasher Hasher
}

func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// RegisterOwner creates a new owner account with a hashed password.
func (s *Service) RegisterOwner(ctx context.Context, name, email, password string) (*Party, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	p := &Party{
		Name:         name,
		Email:        email,
		Role:         RoleOwner,
		PasswordHash: hash,
	}

	if err := s.repo.CreateParty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Authenticate verifies email and password, returning the party if valid.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Party, error) {
	p, err := s.repo.GetPartyByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := s.hasher.Compare(p.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Party, error) {
	return s.repo.GetParty(ctx, id)
}

func (s *Service) ListFlatmates(ctx context.Context, ownerID uuid.UUID) ([]*Party, error) {
	return s.repo.ListFlatmates(ctx, ownerID)
}

// UpdateProfile changes a party's display name and email.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*Party, error) {
	p, err := s.repo.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Email = email

	if err := s.repo.UpdateParty(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return ErrWeakPassword
	}

	p, err := s.repo.GetParty(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(p.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

// RemoveFlatmate deletes a flatmate account. Only the managing owner may
// remove it.
func (s *Service) RemoveFlatmate(ctx context.Context, ownerID, flatmateID uuid.UUID) error {
	p, err := s.repo.GetParty(ctx, flatmateID)
	if err != nil {
		return err
	}

	if p.Role != RoleFlatmate || p.OwnerID == nil || *p.OwnerID != ownerID {
		return ErrNotFound
	}

	return s.repo.DeleteParty(ctx, flatmateID)
}
