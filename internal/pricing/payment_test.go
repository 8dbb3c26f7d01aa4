package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusRank(s PaymentStatus) int {
	switch s {
	case StatusNotPaid:
		return 0
	case StatusPartial:
		return 1
	default:
		return 2
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusNotPaid, DeriveStatus(0, 0, 500))
	assert.Equal(t, StatusPartial, DeriveStatus(0, 100, 500))
	assert.Equal(t, StatusPaid, DeriveStatus(400, 100, 500))
	assert.Equal(t, StatusPaid, DeriveStatus(400, 200, 500))
	// Zero due with zero paid is still NP
	assert.Equal(t, StatusNotPaid, DeriveStatus(0, 0, 0))
}

func TestDeriveStatusIncludesStorageFeeInTotalDue(t *testing.T) {
	// Bill fully paid but a storage fee is outstanding: not PAID yet.
	totalDue := 500.0 + 50.0
	assert.Equal(t, StatusPartial, DeriveStatus(500, 0, totalDue))
	assert.Equal(t, StatusPaid, DeriveStatus(500, 50, totalDue))
}

func TestDeriveStatusMonotonic(t *testing.T) {
	// P2: for fixed totalDue, status is non-decreasing in totalPaidAfter
	const totalDue = 750.0
	prev := -1
	for paid := 0.0; paid <= totalDue+200; paid += 12.5 {
		rank := statusRank(DeriveStatus(0, paid, totalDue))
		require.GreaterOrEqual(t, rank, prev, "paid %v", paid)
		prev = rank
	}
}

func TestClampDueNow(t *testing.T) {
	assert.Equal(t, 0.0, ClampDueNow(-10, 100))
	assert.Equal(t, 50.0, ClampDueNow(50, 100))
	assert.Equal(t, 100.0, ClampDueNow(500, 100))
	assert.Equal(t, 0.0, ClampDueNow(500, 0))
}

func TestClampDueNowIdempotent(t *testing.T) {
	// P3: clamping twice equals clamping once
	for _, x := range []float64{-50, 0, 25, 100, 9999} {
		for _, b := range []float64{0, 50, 100} {
			once := ClampDueNow(x, b)
			require.Equal(t, once, ClampDueNow(once, b), "x=%v b=%v", x, b)
		}
	}
}

func TestComputeChange(t *testing.T) {
	// P4: change is never negative and zero whenever customerPaid <= dueNow
	assert.Equal(t, 0.0, ComputeChange(50, 100))
	assert.Equal(t, 0.0, ComputeChange(100, 100))
	assert.Equal(t, 150.0, ComputeChange(250, 100))
}

func TestComputeUpdatedBalance(t *testing.T) {
	assert.Equal(t, 300.0, ComputeUpdatedBalance(500, 200, 0))
	assert.Equal(t, 50.0, ComputeUpdatedBalance(500, 500, 50))
	// Overpaid bill never goes negative; fee still owed
	assert.Equal(t, 50.0, ComputeUpdatedBalance(500, 700, 50))
}

func TestScenarioBStorageFeeOnlyBalance(t *testing.T) {
	// Transaction total 500 fully paid, storage fee 50: combined balance is
	// 50 and any due-now above it clamps down to 50.
	combined := ComputeUpdatedBalance(500, 500, 50)
	require.Equal(t, 50.0, combined)
	assert.Equal(t, 50.0, ClampDueNow(500, combined))
	assert.Equal(t, 50.0, ClampDueNow(50.01, combined))
	assert.Equal(t, 25.0, ClampDueNow(25, combined))
}
