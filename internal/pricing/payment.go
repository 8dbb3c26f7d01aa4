package pricing

// PaymentStatus is the three-state classification shown on every
// operational view: NP < PARTIAL < PAID.
type PaymentStatus string

const (
	StatusNotPaid PaymentStatus = "NP"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

// DeriveStatus classifies the payment state after adding paymentAmount on
// top of what was already paid. totalDue must include accrued storage fee,
// not just the bill total.
func DeriveStatus(amountPaidBefore, paymentAmount, totalDue float64) PaymentStatus {
	totalPaidAfter := amountPaidBefore + paymentAmount
	switch {
	case totalPaidAfter == 0:
		return StatusNotPaid
	case totalPaidAfter >= totalDue:
		return StatusPaid
	default:
		return StatusPartial
	}
}

// ClampDueNow bounds a proposed collection amount to [0, combinedBalance]
func ClampDueNow(proposed, combinedBalance float64) float64 {
	if proposed < 0 {
		return 0
	}
	if proposed > combinedBalance {
		return combinedBalance
	}
	return proposed
}

// ComputeChange returns the cash handed back: max(0, customerPaid - dueNow)
func ComputeChange(customerPaid, dueNow float64) float64 {
	change := customerPaid - dueNow
	if change < 0 {
		return 0
	}
	return change
}

// ComputeUpdatedBalance returns the combined balance after a payment:
// the unpaid bill remainder plus any accrued storage fee.
func ComputeUpdatedBalance(total, amountPaidAfter, storageFee float64) float64 {
	remaining := total - amountPaidAfter
	if remaining < 0 {
		remaining = 0
	}
	return remaining + storageFee
}

// RemainingBalance is the unpaid bill portion, never negative
func RemainingBalance(totalAmount, amountPaid float64) float64 {
	remaining := totalAmount - amountPaid
	if remaining < 0 {
		return 0
	}
	return remaining
}
