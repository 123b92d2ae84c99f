package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/party"
)

var (
	ErrInvalidToken = errors.New("invalid or expired session token")
	ErrMissingToken = errors.New("authorization token required")
)

// Claims carries the caller's identity through a session token.
type Claims struct {
	PartyID string     `json:"party_id"`
	Role    party.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session identifies the authenticated caller of a request.
type Session struct {
	PartyID uuid.UUID
	Role    party.Role
}

// JWTManager signs and validates HS256 session tokens.
type JWTManager struct {
	secretKey []byte
	tokenTTL  time.Duration
}

func NewJWTManager(secretKey string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// Generate creates a session token for the given party.
func (m *JWTManager) Generate(p *party.Party) (string, error) {
	now := time.Now()

	claims := &Claims{
		PartyID: p.ID.String(),
		Role:    p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Validate parses a session token and returns the caller's session.
func (m *JWTManager) Validate(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	partyID, err := uuid.Parse(claims.PartyID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Session{PartyID: partyID, Role: claims.Role}, nil
}
