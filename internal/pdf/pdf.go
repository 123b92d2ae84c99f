// Package pdf renders the bill summary document attached to notification
// emails.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mpsousa/flatbill/internal/bill"
)

type Renderer struct{}

func NewRenderer() Renderer {
	return Renderer{}
}

// RenderBill produces a one-page summary: the cycle totals, the
// recipient's share, and the full readings table.
func (Renderer) RenderBill(b *bill.Bill, recipientName string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(18, 18, 18)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Flatmate Bill", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 7, fmt.Sprintf("Bill ID: %s", b.ID), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Date: %s", b.CreatedAt.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("This month's total units used: %.2f", b.MasterReading), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("Total amount: $%.2f", b.ActualBill), "", 1, "L", false, 0, "")
	doc.Ln(4)

	for _, d := range b.Details {
		if d.Name != recipientName {
			continue
		}

		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 9, fmt.Sprintf("Your share: $%.2f", d.Amount), "", 1, "L", false, 0, "")
		doc.Ln(4)

		break
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(80, 8, "Name", "B", 0, "L", false, 0, "")
	doc.CellFormat(40, 8, "Reading", "B", 0, "R", false, 0, "")
	doc.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 11)

	for _, d := range b.Details {
		doc.CellFormat(80, 8, d.Name, "", 0, "L", false, 0, "")
		doc.CellFormat(40, 8, fmt.Sprintf("%.2f", d.Reading), "", 0, "R", false, 0, "")
		doc.CellFormat(40, 8, fmt.Sprintf("$%.2f", d.Amount), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering bill pdf: %w", err)
	}

	return buf.Bytes(), nil
}
