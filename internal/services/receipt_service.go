package services

import (
	"bytes"
	"fmt"

	"solecare-backend/internal/models"
	"solecare-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReceiptData is the frozen snapshot a receipt is rendered from. It is
// captured before the payment is persisted so the printout matches what the
// cashier confirmed on screen.
type ReceiptData struct {
	ReceiptNumber string
	Transaction   *models.Transaction
	Payment       *models.PaymentRecord
	Ledger        []*models.PaymentRecord
	AmountDue     float64
	Change        float64
	NewBalance    float64
}

// ReceiptService renders payment receipts as PDFs
type ReceiptService struct {
	shopName string
	address  string
}

func NewReceiptService(shopName, address string) *ReceiptService {
	return &ReceiptService{shopName: shopName, address: address}
}

// Render produces the receipt PDF. The ledger section lists every payment on
// the transaction in date order, with placeholders shown as unavailable.
func (s *ReceiptService) Render(data *ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, s.shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, s.address, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Official Receipt %s", data.ReceiptNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if data.Payment.PaymentDate != nil {
		pdf.CellFormat(0, 5, timeutil.FormatPHT(*data.Payment.PaymentDate, timeutil.DisplayLayout), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Cashier: %s", data.Payment.CashierName), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	s.amountRow(pdf, "Bill Total", data.Transaction.TotalAmount)
	if data.Transaction.DiscountAmount > 0 {
		s.amountRow(pdf, "Discount Applied", -data.Transaction.DiscountAmount)
	}
	s.amountRow(pdf, "Amount Due Now", data.AmountDue)
	s.amountRow(pdf, fmt.Sprintf("Paid (%s)", data.Payment.Mode), data.Payment.Amount)
	s.amountRow(pdf, "Change", data.Change)
	s.amountRow(pdf, "Remaining Balance", data.NewBalance)
	pdf.Ln(4)

	if len(data.Ledger) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Payment History", "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, record := range data.Ledger {
			if record.Placeholder {
				pdf.CellFormat(0, 5, fmt.Sprintf("%s  (details unavailable)", record.ID), "", 1, "L", false, 0, "")
				continue
			}
			when := "-"
			if record.PaymentDate != nil {
				when = timeutil.FormatPHT(*record.PaymentDate, timeutil.DateLayout)
			}
			pdf.CellFormat(60, 5, when, "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 5, record.ReceiptNumber, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, fmt.Sprintf("PHP %.2f", record.Amount), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Thank you! Items unclaimed past the grace period accrue daily storage fees.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReceiptService) amountRow(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(60, 5, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("PHP %.2f", amount), "", 1, "R", false, 0, "")
}
