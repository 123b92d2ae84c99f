package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mpsousa/flatbill/internal/invitation"
	"github.com/mpsousa/flatbill/internal/party"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, owner_id, name, email, token, expires_at, created_at
func scanInvitation(s scanner) (*invitation.Invitation, error) {
	var inv invitation.Invitation

	if err := s.Scan(
		&inv.ID, &inv.OwnerID, &inv.Name, &inv.Email, &inv.Token,
		&inv.ExpiresAt, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &inv, nil
}

const selectInvitationColumns = `
	i.id, i.owner_id, i.name, i.email, i.token, i.expires_at, i.created_at
`

func (s *Store) CreateInvitation(ctx context.Context, inv *invitation.Invitation) error {
	query := `
		INSERT INTO invitations (owner_id, name, email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.OwnerID,
		inv.Name,
		inv.Email,
		inv.Token,
		inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invitation: %w", err)
	}

	return nil
}

func (s *Store) GetInvitationByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	query := `SELECT ` + selectInvitationColumns + `
		FROM invitations i
		WHERE i.token = $1`

	inv, err := scanInvitation(s.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invitation.ErrNotFound
		}

		return nil, fmt.Errorf("getting invitation: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvitations(ctx context.Context, ownerID uuid.UUID) ([]*invitation.Invitation, error) {
	query := `SELECT ` + selectInvitationColumns + `
		FROM invitations i
		WHERE i.owner_id = $1
		ORDER BY i.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	defer rows.Close()

	var invs []*invitation.Invitation

	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invitation: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invitation rows: %w", err)
	}

	return invs, nil
}

func (s *Store) RevokeInvitation(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM invitations WHERE id = $1 AND owner_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("revoking invitation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoking invitation: %w", err)
	}

	if affected == 0 {
		return invitation.ErrNotFound
	}

	return nil
}

type acceptTx struct {
	tx *sql.Tx
}

func (s *Store) BeginAccept(ctx context.Context) (invitation.AcceptTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning accept tx: %w", err)
	}

	return &acceptTx{tx: tx}, nil
}

func (atx *acceptTx) Commit() error   { return atx.tx.Commit() }
func (atx *acceptTx) Rollback() error { return atx.tx.Rollback() }

// ConsumeInvitation deletes the invitation row and returns it. The delete
// arbitrates concurrent accepts: the loser finds no row and gets
// ErrInvalidToken.
func (atx *acceptTx) ConsumeInvitation(ctx context.Context, token string) (*invitation.Invitation, error) {
	query := `
		DELETE FROM invitations
		WHERE token = $1
		RETURNING id, owner_id, name, email, token, expires_at, created_at
	`

	inv, err := scanInvitation(atx.tx.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invitation.ErrInvalidToken
		}

		return nil, fmt.Errorf("consuming invitation: %w", err)
	}

	return inv, nil
}

func (atx *acceptTx) CreateFlatmate(ctx context.Context, p *party.Party) error {
	query := `
		INSERT INTO parties (name, email, role, owner_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := atx.tx.QueryRowContext(ctx, query,
		p.Name,
		p.Email,
		p.Role,
		p.OwnerID,
		p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return party.ErrDuplicateEmail
		}

		return fmt.Errorf("creating flatmate: %w", err)
	}

	return nil
}
