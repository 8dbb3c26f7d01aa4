package pricing

import "math"

// FloorToCent truncates an amount down to whole centavos
func FloorToCent(amount float64) float64 {
	return math.Floor(amount*100) / 100
}

// RedistributeOverflow converts the part of a payment exceeding the
// transaction's bill total into storage-fee credit on line items, returning
// the per-line-item fee delta.
//
// When targetLineItemID is set (single-item pickup), the entire overflow is
// attributed to that item. Otherwise the overflow is split evenly across all
// line items using floor-to-cent division; the fractional-cent remainder of
// an even split is not redistributed further (accepted rounding loss).
func RedistributeOverflow(prevPaid, paymentAmount, totalAmount float64, lineItemIDs []string, targetLineItemID string) map[string]float64 {
	deltas := make(map[string]float64)

	overflow := (prevPaid + paymentAmount) - totalAmount
	if overflow <= 0 {
		return deltas
	}

	if targetLineItemID != "" {
		deltas[targetLineItemID] = overflow
		return deltas
	}

	if len(lineItemIDs) == 0 {
		return deltas
	}

	share := FloorToCent(overflow / float64(len(lineItemIDs)))
	for _, id := range lineItemIDs {
		deltas[id] = share
	}
	return deltas
}
