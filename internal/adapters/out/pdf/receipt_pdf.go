// internal/adapters/out/pdf/receipt_pdf.go
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"storefront/internal/domain/common"
	orderdom "storefront/internal/domain/order"
	udom "storefront/internal/domain/user"
)

// ReceiptRenderer draws order receipts as A4 PDFs.
type ReceiptRenderer struct {
	StoreName string
	now       func() time.Time
}

func NewReceiptRenderer(storeName string) *ReceiptRenderer {
	name := strings.TrimSpace(storeName)
	if name == "" {
		name = "Storefront"
	}
	return &ReceiptRenderer{StoreName: name, now: time.Now}
}

// Render returns the PDF bytes for o bought by buyer.
func (r *ReceiptRenderer) Render(o orderdom.Order, buyer udom.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(r.StoreName+" Receipt"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Order: "+o.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Date: "+o.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Status: "+string(o.Status)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("Buyer: "+strings.TrimSpace(buyer.Name+" <"+buyer.Email+">")))
	pdf.Ln(5)
	if addr := strings.TrimSpace(buyer.Address); addr != "" {
		pdf.Cell(0, 6, tr("Ship to: "+addr))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	colW := []float64{12, 130, 40}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(colW[0], 8, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "ITEM", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[2], 8, "PRICE", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	for i, it := range o.Items {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, tr(trimTo(it.Name, 70)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, common.FormatUSD(common.ToCents(it.Price)), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colW[0]+colW[1], 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colW[2], 9, common.FormatUSD(o.TotalCents()), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	if o.Payment.TransactionID != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.Cell(0, 6, tr("Transaction: "+o.Payment.TransactionID+" ("+o.Payment.Status+")"))
		pdf.Ln(5)
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, tr("Generated by "+r.StoreName+" - "+r.now().UTC().Format(time.RFC3339)), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: build receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func trimTo(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "..."
}
