// Package allocation splits a billing cycle's total amount across sub-metered
// flatmates proportionally to their readings, with the residual units and
// amount assigned to the owner.
package allocation

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrOverAllocation is returned when the sub-readings add up to more units
// than the master meter recorded.
var ErrOverAllocation = errors.New("sub-readings exceed master reading")

// InvalidInputError names the field that failed validation.
type InvalidInputError struct {
	Field string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s must be a non-negative finite number", e.Field)
}

// SubReading is one flatmate's meter reading for the cycle.
type SubReading struct {
	PartyID uuid.UUID
	Name    string
	Reading float64
}

// Share is one party's computed slice of the bill.
type Share struct {
	PartyID uuid.UUID
	Name    string
	Reading float64
	Amount  float64
}

// Result holds the computed shares. Flatmate shares keep the input order;
// the owner's residual share is always last.
type Result struct {
	Shares []Share
}

// OwnerShare returns the trailing owner entry.
func (r Result) OwnerShare() Share {
	return r.Shares[len(r.Shares)-1]
}

// FlatmateShares returns every share except the owner's.
func (r Result) FlatmateShares() []Share {
	return r.Shares[:len(r.Shares)-1]
}

func invalid(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// Compute splits actualBill across the sub-readings in proportion to
// reading/masterReading and assigns the remaining units to the owner.
//
// A master reading of zero is a defined degenerate case: every amount,
// the owner's included, is zero. Otherwise the owner's amount is
// actualBill minus the flatmate amounts, so the shares always sum to
// exactly actualBill.
func Compute(masterReading, actualBill float64, owner SubReading, subs []SubReading) (Result, error) {
	if invalid(masterReading) {
		return Result{}, &InvalidInputError{Field: "masterReading"}
	}

	if invalid(actualBill) {
		return Result{}, &InvalidInputError{Field: "actualBill"}
	}

	var totalSubUnits float64

	for _, s := range subs {
		if invalid(s.Reading) {
			return Result{}, &InvalidInputError{Field: fmt.Sprintf("reading[%s]", s.Name)}
		}

		totalSubUnits += s.Reading
	}

	if totalSubUnits > masterReading {
		return Result{}, ErrOverAllocation
	}

	shares := make([]Share, 0, len(subs)+1)

	var flatmateTotal float64

	for _, s := range subs {
		var amount float64
		if masterReading > 0 {
			amount = actualBill * s.Reading / masterReading
		}

		flatmateTotal += amount

		shares = append(shares, Share{
			PartyID: s.PartyID,
			Name:    s.Name,
			Reading: s.Reading,
			Amount:  amount,
		})
	}

	ownerShare := Share{
		PartyID: owner.PartyID,
		Name:    owner.Name,
		Reading: masterReading - totalSubUnits,
	}

	// The owner absorbs the floating-point remainder so the amounts sum
	// to the bill total exactly.
	if masterReading > 0 {
		ownerShare.Amount = actualBill - flatmateTotal
	}

	shares = append(shares, ownerShare)

	return Result{Shares: shares}, nil
}
