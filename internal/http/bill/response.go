package bill

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpsousa/flatbill/internal/bill"
)

type detailResponse struct {
	ID      uuid.UUID  `json:"id"`
	PartyID *uuid.UUID `json:"party_id,omitempty"`
	Name    string     `json:"name"`
	Reading float64    `json:"reading"`
	Amount  float64    `json:"amount"`
}

type billResponse struct {
	ID            uuid.UUID        `json:"id"`
	MasterReading float64          `json:"master_reading"`
	ActualBill    float64          `json:"actual_bill"`
	CreatedAt     time.Time        `json:"created_at"`
	Details       []detailResponse `json:"details,omitempty"`
}

type flatmateBillResponse struct {
	BillID     uuid.UUID      `json:"bill_id"`
	ActualBill float64        `json:"actual_bill"`
	CreatedAt  time.Time      `json:"created_at"`
	Detail     detailResponse `json:"detail"`
}

func toDetailResponse(d bill.Detail) detailResponse {
	return detailResponse{
		ID:      d.ID,
		PartyID: d.PartyID,
		Name:    d.Name,
		Reading: d.Reading,
		Amount:  d.Amount,
	}
}

func toResponse(b *bill.Bill) billResponse {
	resp := billResponse{
		ID:            b.ID,
		MasterReading: b.MasterReading,
		ActualBill:    b.ActualBill,
		CreatedAt:     b.CreatedAt,
	}

	for _, d := range b.Details {
		resp.Details = append(resp.Details, toDetailResponse(d))
	}

	return resp
}

func toResponseList(bills []*bill.Bill) []billResponse {
	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toResponse(b)
	}

	return resp
}

func toFlatmateResponseList(fbills []*bill.FlatmateBill) []flatmateBillResponse {
	resp := make([]flatmateBillResponse, len(fbills))
	for i, fb := range fbills {
		resp[i] = flatmateBillResponse{
			BillID:     fb.BillID,
			ActualBill: fb.ActualBill,
			CreatedAt:  fb.CreatedAt,
			Detail:     toDetailResponse(fb.Detail),
		}
	}

	return resp
}
