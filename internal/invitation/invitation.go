package invitation

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TTL is how long an invitation stays acceptable after creation.
const TTL = 48 * time.Hour

var (
	ErrNotFound         = errors.New("invitation not found")
	ErrInvalidToken     = errors.New("invalid invitation token")
	ErrExpired          = errors.New("invitation has expired")
	ErrDuplicateAccount = errors.New("an account with this email already exists")
)

// DependencyError wraps a store or collaborator failure so raw driver
// errors never cross the service boundary.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure during %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// IsDependencyError reports whether err originated in a collaborator
// rather than in the invitation lifecycle rules.
func IsDependencyError(err error) bool {
	var depErr *DependencyError

	return errors.As(err, &depErr)
}

// Invitation is a single-use, time-limited offer for a named individual to
// become a flatmate of the inviting owner. The token is the sole credential
// needed to accept it.
type Invitation struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the invitation can no longer be accepted.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// TokenSource supplies unguessable invitation tokens.
type TokenSource interface {
	Token() (string, error)
}

// CryptoTokenSource generates 32 random bytes, hex encoded.
type CryptoTokenSource struct{}

func (CryptoTokenSource) Token() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
