package models

import (
	"sort"
	"time"
)

// PaymentMode is how the customer paid
type PaymentMode string

const (
	ModeCash  PaymentMode = "Cash"
	ModeGCash PaymentMode = "GCash"
	ModeBank  PaymentMode = "Bank"
	ModeOther PaymentMode = "Other"
)

// PaymentRecord is immutable once created. Placeholder records carry only
// the id of a payment whose fetch failed during ledger reconstruction.
type PaymentRecord struct {
	ID                string      `json:"id"`
	TransactionID     string      `json:"transaction_id"`
	ReceiptNumber     string      `json:"receipt_number"`
	Amount            float64     `json:"amount"`
	Mode              PaymentMode `json:"mode"`
	PaymentDate       *time.Time  `json:"payment_date,omitempty"`
	CashierName       string      `json:"cashier_name"`
	ProcessedByUserID int         `json:"processed_by_user_id"`
	CreatedAt         time.Time   `json:"created_at"`
	Placeholder       bool        `json:"placeholder,omitempty"`
}

// SortLedger orders payment records by date ascending. Records with a
// missing date sort after all dated records, keeping their input order.
// Both the on-screen payments breakdown and the printed receipt consume
// the output of this sort, so they always agree.
func SortLedger(records []*PaymentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].PaymentDate, records[j].PaymentDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}

type ProcessPaymentRequest struct {
	TransactionID string      `json:"transaction_id"`
	CashierName   string      `json:"cashier_name"`
	DueNow        float64     `json:"due_now"`
	CustomerPaid  float64     `json:"customer_paid"`
	Mode          PaymentMode `json:"mode"`
	MarkPickedUp  bool        `json:"mark_picked_up"`
	LineItemID    string      `json:"line_item_id,omitempty"`
}

// PaymentResult is what the cashier screen renders after a save
type PaymentResult struct {
	Payment          *PaymentRecord     `json:"payment"`
	Transaction      *Transaction       `json:"transaction"`
	Change           float64            `json:"change"`
	NewBalance       float64            `json:"new_balance"`
	FeeDeltas        map[string]float64 `json:"fee_deltas,omitempty"`
	ReceiptGenerated bool               `json:"receipt_generated"`
}
