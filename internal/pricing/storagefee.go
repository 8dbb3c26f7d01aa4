package pricing

import (
	"time"

	"solecare-backend/internal/timeutil"
)

// FeeItem is the minimal view of a line item the fee computation needs
type FeeItem struct {
	ID               string
	PickupNoticeDate *time.Time
	StorageFee       float64
}

// FeeDiagnostics is a per-item breakdown of incremental storage fees, used
// to verify parity between displayed and persisted totals after a refresh
// round-trip. A divergence means a redistribution step was skipped or
// mis-applied.
type FeeDiagnostics struct {
	PerItem          map[string]float64 `json:"per_item"`
	TotalIncremental float64            `json:"total_incremental"`
}

// PickupAllowanceDays returns the number of whole days remaining before
// storage fees start accruing for an item noticed ready on pickupNotice.
// A positive value means days still covered by the grace period; a negative
// value means days overdue, which feeds the fee-rate multiplier.
func PickupAllowanceDays(pickupNotice, now time.Time, graceDays int) int {
	return graceDays - timeutil.DaysBetween(pickupNotice, now)
}

// IncrementalFee converts an allowance into a fee amount. Items still
// within their allowance accrue nothing.
func IncrementalFee(allowanceDays int, ratePerDay float64) float64 {
	if allowanceDays >= 0 {
		return 0
	}
	return float64(-allowanceDays) * ratePerDay
}

// ComputeFeeDiagnostics recomputes each item's incremental fee component.
// Items without a pickup notice date accrue nothing.
func ComputeFeeDiagnostics(items []FeeItem, now time.Time, graceDays int, ratePerDay float64) FeeDiagnostics {
	diag := FeeDiagnostics{PerItem: make(map[string]float64, len(items))}
	for _, item := range items {
		fee := 0.0
		if item.PickupNoticeDate != nil {
			allowance := PickupAllowanceDays(*item.PickupNoticeDate, now, graceDays)
			fee = IncrementalFee(allowance, ratePerDay)
		}
		diag.PerItem[item.ID] = fee
		diag.TotalIncremental += fee
	}
	return diag
}

// TotalStorageFee sums the persisted fee across a transaction's line items
func TotalStorageFee(items []FeeItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.StorageFee
	}
	return total
}
