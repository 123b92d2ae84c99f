package party

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the flat owner from the flatmates they bill.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleFlatmate Role = "FLATMATE"
)

var (
	ErrNotFound           = errors.New("party not found")
	ErrDuplicateEmail     = errors.New("a party with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Party is an identity participating in bills: the owner of the master
// meter or one of their sub-metered flatmates.
type Party struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Role         Role
	OwnerID      *uuid.UUID // set for flatmates, nil for owners
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
