package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpsousa/flatbill/internal/party"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, email, role, owner_id, password_hash, created_at, updated_at
func scanParty(s scanner) (*party.Party, error) {
	var p party.Party

	var roleStr string

	if err := s.Scan(
		&p.ID, &p.Name, &p.Email, &roleStr, &p.OwnerID, &p.PasswordHash,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Role = party.Role(roleStr)

	return &p, nil
}

const selectPartyColumns = `
	p.id, p.name, p.email, p.role, p.owner_id, p.password_hash, p.created_at, p.updated_at
`

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation (the parties.email constraint).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateParty(ctx context.Context, p *party.Party) error {
	query := `
		INSERT INTO parties (name, email, role, owner_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Name,
		p.Email,
		p.Role,
		p.OwnerID,
		p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return party.ErrDuplicateEmail
		}

		return fmt.Errorf("creating party: %w", err)
	}

	return nil
}

func (s *Store) GetParty(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + `
		FROM parties p
		WHERE p.id = $1`

	p, err := scanParty(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, party.ErrNotFound
		}

		return nil, fmt.Errorf("getting party: %w", err)
	}

	return p, nil
}

func (s *Store) GetPartyByEmail(ctx context.Context, email string) (*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + `
		FROM parties p
		WHERE p.email = $1`

	p, err := scanParty(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, party.ErrNotFound
		}

		return nil, fmt.Errorf("getting party by email: %w", err)
	}

	return p, nil
}

func (s *Store) UpdateParty(ctx context.Context, p *party.Party) error {
	query := `
		UPDATE parties
		SET name = $1, email = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := s.db.ExecContext(ctx, query, p.Name, p.Email, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return party.ErrDuplicateEmail
		}

		return fmt.Errorf("updating party: %w", err)
	}

	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE parties
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := s.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}

func (s *Store) ListFlatmates(ctx context.Context, ownerID uuid.UUID) ([]*party.Party, error) {
	query := `SELECT ` + selectPartyColumns + `
		FROM parties p
		WHERE p.owner_id = $1 AND p.role = $2
		ORDER BY p.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID, party.RoleFlatmate)
	if err != nil {
		return nil, fmt.Errorf("listing flatmates: %w", err)
	}
	defer rows.Close()

	var parties []*party.Party

	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning party: %w", err)
		}

		parties = append(parties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating party rows: %w", err)
	}

	return parties, nil
}

func (s *Store) DeleteParty(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM parties WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting party: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting party: %w", err)
	}

	if affected == 0 {
		return party.ErrNotFound
	}

	return nil
}
