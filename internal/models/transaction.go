package models

import (
	"time"

	"solecare-backend/internal/pricing"
)

type Transaction struct {
	ID             string                `json:"id"`
	CustomerID     string                `json:"customer_id"`
	BranchID       string                `json:"branch_id"`
	TotalAmount    float64               `json:"total_amount"`
	AmountPaid     float64               `json:"amount_paid"`
	DiscountAmount float64               `json:"discount_amount"`
	PaymentStatus  pricing.PaymentStatus `json:"payment_status"`
	DateIn         time.Time             `json:"date_in"`
	DateOut        *time.Time            `json:"date_out,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// RemainingBalance is the unpaid bill portion, excluding storage fees
func (t *Transaction) RemainingBalance() float64 {
	return pricing.RemainingBalance(t.TotalAmount, t.AmountPaid)
}

// TransactionDetail bundles a transaction with its line items and the
// derived balances the cashier screens actually display.
type TransactionDetail struct {
	Transaction      *Transaction `json:"transaction"`
	LineItems        []*LineItem  `json:"line_items"`
	StorageFeeTotal  float64      `json:"storage_fee_total"`
	RemainingBalance float64      `json:"remaining_balance"`
	CombinedBalance  float64      `json:"combined_balance"`
}

type CreateTransactionRequest struct {
	CustomerID string                `json:"customer_id"`
	BranchID   string                `json:"branch_id"`
	Shoes      []pricing.ShoeDraft   `json:"shoes"`
	Discount   *pricing.DiscountSpec `json:"discount,omitempty"`
}
