package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/bill"
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

// Expected column order: id, bill_id, party_id, name, reading, amount
func scanDetail(s scanner) (bill.Detail, error) {
	var d bill.Detail

	if err := s.Scan(&d.ID, &d.BillID, &d.PartyID, &d.Name, &d.Reading, &d.Amount); err != nil {
		return bill.Detail{}, err
	}

	return d, nil
}

type createTx struct {
	tx *sql.Tx
}

func (s *Store) BeginCreate(ctx context.Context) (bill.CreateTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning create tx: %w", err)
	}

	return &createTx{tx: tx}, nil
}

func (c *createTx) Commit() error   { return c.tx.Commit() }
func (c *createTx) Rollback() error { return c.tx.Rollback() }

func (c *createTx) CreateBill(ctx context.Context, b *bill.Bill) error {
	billQuery := `
		INSERT INTO bills (owner_id, master_reading, actual_bill, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := c.tx.QueryRowContext(ctx, billQuery,
		b.OwnerID,
		b.MasterReading,
		b.ActualBill,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating bill: %w", err)
	}

	detailQuery := `
		INSERT INTO bill_details (bill_id, party_id, name, reading, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for i := range b.Details {
		d := &b.Details[i]
		d.BillID = b.ID

		err := c.tx.QueryRowContext(ctx, detailQuery,
			d.BillID,
			d.PartyID,
			d.Name,
			d.Reading,
			d.Amount,
		).Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("creating bill detail: %w", err)
		}
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	billQuery := `
		SELECT b.id, b.owner_id, b.master_reading, b.actual_bill, b.created_at
		FROM bills b
		WHERE b.id = $1
	`

	var b bill.Bill

	err := s.db.QueryRowContext(ctx, billQuery, id).Scan(
		&b.ID, &b.OwnerID, &b.MasterReading, &b.ActualBill, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	detailQuery := `
		SELECT d.id, d.bill_id, d.party_id, d.name, d.reading, d.amount
		FROM bill_details d
		WHERE d.bill_id = $1
		ORDER BY d.id ASC
	`

	rows, err := s.db.QueryContext(ctx, detailQuery, id)
	if err != nil {
		return nil, fmt.Errorf("getting bill details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill detail: %w", err)
		}

		b.Details = append(b.Details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating detail rows: %w", err)
	}

	return &b, nil
}

func (s *Store) ListBills(ctx context.Context, ownerID uuid.UUID) ([]*bill.Bill, error) {
	query := `
		SELECT b.id, b.owner_id, b.master_reading, b.actual_bill, b.created_at
		FROM bills b
		WHERE b.owner_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		var b bill.Bill
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.MasterReading, &b.ActualBill, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bill rows: %w", err)
	}

	return bills, nil
}

func (s *Store) ListFlatmateBills(ctx context.Context, partyID uuid.UUID) ([]*bill.FlatmateBill, error) {
	query := `
		SELECT b.id, b.actual_bill, b.created_at,
			d.id, d.bill_id, d.party_id, d.name, d.reading, d.amount
		FROM bill_details d
		JOIN bills b ON b.id = d.bill_id
		WHERE d.party_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, partyID)
	if err != nil {
		return nil, fmt.Errorf("listing flatmate bills: %w", err)
	}
	defer rows.Close()

	var fbills []*bill.FlatmateBill

	for rows.Next() {
		var fb bill.FlatmateBill

		if err := rows.Scan(
			&fb.BillID, &fb.ActualBill, &fb.CreatedAt,
			&fb.Detail.ID, &fb.Detail.BillID, &fb.Detail.PartyID,
			&fb.Detail.Name, &fb.Detail.Reading, &fb.Detail.Amount,
		); err != nil {
			return nil, fmt.Errorf("scanning flatmate bill: %w", err)
		}

		fbills = append(fbills, &fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flatmate bill rows: %w", err)
	}

	return fbills, nil
}

// DeleteBill removes the bill; bill_details fall with it via the cascading
// foreign key.
func (s *Store) DeleteBill(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bills WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting bill: %w", err)
	}

	if affected == 0 {
		return bill.ErrNotFound
	}

	return nil
}
