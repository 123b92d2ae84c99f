package pdf_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpsousa/flatbill/internal/bill"
	"github.com/mpsousa/flatbill/internal/pdf"
)

func TestRenderBill(t *testing.T) {
	ownerID := uuid.New()
	flatmateID := uuid.New()

	b := &bill.Bill{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		MasterReading: 100,
		ActualBill:    500,
		CreatedAt:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Details: []bill.Detail{
			{Name: "Ana", PartyID: &flatmateID, Reading: 30, Amount: 150},
			{Name: "Owner", PartyID: &ownerID, Reading: 70, Amount: 350},
		},
	}

	renderer := pdf.NewRenderer()

	out, err := renderer.RenderBill(b, "Ana")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRenderBill_UnknownRecipient(t *testing.T) {
	b := &bill.Bill{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Details: []bill.Detail{
			{Name: "Owner", Reading: 100, Amount: 500},
		},
	}

	renderer := pdf.NewRenderer()

	// A recipient absent from the details still gets the summary table.
	out, err := renderer.RenderBill(b, "Nobody")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
