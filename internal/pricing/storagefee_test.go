package pricing

import (
	"testing"
	"time"

	"solecare-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
)

func TestPickupAllowanceDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, timeutil.PHT)

	// Noticed today: full grace remaining
	assert.Equal(t, 7, PickupAllowanceDays(now, now, 7))

	// Noticed 3 days ago: 4 days left
	assert.Equal(t, 4, PickupAllowanceDays(now.AddDate(0, 0, -3), now, 7))

	// Noticed 10 days ago: 3 days overdue
	assert.Equal(t, -3, PickupAllowanceDays(now.AddDate(0, 0, -10), now, 7))
}

func TestIncrementalFee(t *testing.T) {
	assert.Equal(t, 0.0, IncrementalFee(5, 10))
	assert.Equal(t, 0.0, IncrementalFee(0, 10))
	assert.Equal(t, 30.0, IncrementalFee(-3, 10))
}

func TestComputeFeeDiagnostics(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, timeutil.PHT)
	overdue := now.AddDate(0, 0, -12) // 5 days past a 7 day grace
	fresh := now.AddDate(0, 0, -2)

	items := []FeeItem{
		{ID: "li-1", PickupNoticeDate: &overdue, StorageFee: 20},
		{ID: "li-2", PickupNoticeDate: &fresh},
		{ID: "li-3"}, // no notice yet, accrues nothing
	}

	diag := ComputeFeeDiagnostics(items, now, 7, 10)
	assert.Equal(t, 50.0, diag.PerItem["li-1"])
	assert.Equal(t, 0.0, diag.PerItem["li-2"])
	assert.Equal(t, 0.0, diag.PerItem["li-3"])
	assert.Equal(t, 50.0, diag.TotalIncremental)
}

func TestTotalStorageFee(t *testing.T) {
	items := []FeeItem{{ID: "a", StorageFee: 20}, {ID: "b", StorageFee: 30.5}}
	assert.Equal(t, 50.5, TotalStorageFee(items))
	assert.Equal(t, 0.0, TotalStorageFee(nil))
}
