package bill

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("bill not found")
	ErrPermission = errors.New("not allowed to access this bill")
)

// DependencyError wraps a persistence or notification collaborator failure
// so raw collaborator errors never cross the service boundary.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure during %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Bill is one billing cycle for one owner: the master meter reading, the
// total amount owed, and the per-party breakdown.
type Bill struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	MasterReading float64
	ActualBill    float64
	Details       []Detail
	CreatedAt     time.Time
}

// Detail is one party's computed share within a bill. The party reference
// is informational; the name is denormalized at creation time.
type Detail struct {
	ID      uuid.UUID
	BillID  uuid.UUID
	PartyID *uuid.UUID
	Name    string
	Reading float64
	Amount  float64
}

// FlatmateBill is a flatmate's own slice of a bill, as listed on their
// dashboard.
type FlatmateBill struct {
	BillID     uuid.UUID
	ActualBill float64
	CreatedAt  time.Time
	Detail     Detail
}
