package allocation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpsousa/flatbill/internal/allocation"
)

func TestCompute(t *testing.T) {
	owner := allocation.SubReading{PartyID: uuid.New(), Name: "Owner"}

	type testCase struct {
		name          string
		masterReading float64
		actualBill    float64
		subs          []allocation.SubReading
		wantAmounts   []float64
		wantOwnerRead float64
		wantErr       error
	}

	tests := []testCase{
		{
			name:          "SingleFlatmate",
			masterReading: 100,
			actualBill:    500,
			subs: []allocation.SubReading{
				{PartyID: uuid.New(), Name: "A", Reading: 30},
			},
			wantAmounts:   []float64{150, 350},
			wantOwnerRead: 70,
		},
		{
			name:          "TwoFlatmates",
			masterReading: 200,
			actualBill:    100,
			subs: []allocation.SubReading{
				{PartyID: uuid.New(), Name: "A", Reading: 50},
				{PartyID: uuid.New(), Name: "B", Reading: 100},
			},
			wantAmounts:   []float64{25, 50, 25},
			wantOwnerRead: 50,
		},
		{
			name:          "NoFlatmates",
			masterReading: 80,
			actualBill:    40,
			subs:          nil,
			wantAmounts:   []float64{40},
			wantOwnerRead: 80,
		},
		{
			name:          "ZeroMasterReading",
			masterReading: 0,
			actualBill:    500,
			subs: []allocation.SubReading{
				{PartyID: uuid.New(), Name: "A", Reading: 0},
			},
			wantAmounts:   []float64{0, 0},
			wantOwnerRead: 0,
		},
		{
			name:          "OverAllocation",
			masterReading: 100,
			actualBill:    500,
			subs: []allocation.SubReading{
				{PartyID: uuid.New(), Name: "A", Reading: 60},
				{PartyID: uuid.New(), Name: "B", Reading: 50},
			},
			wantErr: allocation.ErrOverAllocation,
		},
		{
			name:          "NegativeMasterReading",
			masterReading: -1,
			actualBill:    500,
			wantErr:       &allocation.InvalidInputError{Field: "masterReading"},
		},
		{
			name:          "NegativeBill",
			masterReading: 100,
			actualBill:    -500,
			wantErr:       &allocation.InvalidInputError{Field: "actualBill"},
		},
		{
			name:          "NegativeSubReading",
			masterReading: 100,
			actualBill:    500,
			subs: []allocation.SubReading{
				{PartyID: uuid.New(), Name: "A", Reading: -5},
			},
			wantErr: &allocation.InvalidInputError{Field: "reading[A]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := allocation.Compute(tt.masterReading, tt.actualBill, owner, tt.subs)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())

				return
			}

			require.NoError(t, err)
			require.Len(t, got.Shares, len(tt.wantAmounts))

			for i, want := range tt.wantAmounts {
				assert.InDelta(t, want, got.Shares[i].Amount, 1e-6)
			}

			ownerShare := got.OwnerShare()
			assert.Equal(t, owner.PartyID, ownerShare.PartyID)
			assert.InDelta(t, tt.wantOwnerRead, ownerShare.Reading, 1e-6)
		})
	}
}

func TestCompute_AmountsSumToBill(t *testing.T) {
	owner := allocation.SubReading{PartyID: uuid.New(), Name: "Owner"}

	// Readings chosen so the per-share division does not come out exact.
	subs := []allocation.SubReading{
		{PartyID: uuid.New(), Name: "A", Reading: 33.3},
		{PartyID: uuid.New(), Name: "B", Reading: 11.1},
		{PartyID: uuid.New(), Name: "C", Reading: 7.77},
	}

	got, err := allocation.Compute(97.31, 123.45, owner, subs)
	require.NoError(t, err)

	var sum float64
	for _, s := range got.Shares {
		sum += s.Amount
	}

	// The owner's share absorbs the remainder, so the sum is exact.
	assert.Equal(t, 123.45, sum)
}

func TestCompute_Idempotent(t *testing.T) {
	owner := allocation.SubReading{PartyID: uuid.New(), Name: "Owner"}
	subs := []allocation.SubReading{
		{PartyID: uuid.New(), Name: "A", Reading: 12.5},
		{PartyID: uuid.New(), Name: "B", Reading: 40},
	}

	first, err := allocation.Compute(100, 73.99, owner, subs)
	require.NoError(t, err)

	second, err := allocation.Compute(100, 73.99, owner, subs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
