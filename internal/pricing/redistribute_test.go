package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedistributeOverflowNoOverflow(t *testing.T) {
	deltas := RedistributeOverflow(100, 200, 500, []string{"a", "b"}, "")
	assert.Empty(t, deltas)
}

func TestRedistributeOverflowTargeted(t *testing.T) {
	// P5: targeted redistribution conserves the overflow exactly
	deltas := RedistributeOverflow(400, 700, 900, []string{"a", "b", "c"}, "b")
	require.Len(t, deltas, 1)
	assert.Equal(t, 200.0, deltas["b"])
}

func TestRedistributeOverflowEvenSplit(t *testing.T) {
	// Scenario C: prevPaid 400, payment 700, total 900 → overflow 200.
	deltas := RedistributeOverflow(400, 700, 900, []string{"a", "b"}, "")
	require.Len(t, deltas, 2)
	assert.Equal(t, 100.0, deltas["a"])
	assert.Equal(t, 100.0, deltas["b"])
}

func TestRedistributeOverflowRoundingLoss(t *testing.T) {
	// Scenario C with 3 items: 200/3 floors to 66.66 each; the leftover
	// 0.02 is accepted rounding loss, never redistributed further.
	deltas := RedistributeOverflow(400, 700, 900, []string{"a", "b", "c"}, "")
	require.Len(t, deltas, 3)

	sum := 0.0
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, 66.66, deltas[id])
		sum += deltas[id]
	}
	assert.InDelta(t, 199.98, sum, 1e-9)
}

func TestRedistributeOverflowConservation(t *testing.T) {
	// P5: even-split loss is bounded by n-1 cents
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, overflow := range []float64{0.01, 0.07, 1, 3.33, 199.99, 1234.56} {
		deltas := RedistributeOverflow(0, overflow+1000, 1000, ids, "")
		sum := 0.0
		for _, d := range deltas {
			sum += d
		}
		require.LessOrEqual(t, sum, overflow+1e-9)
		require.GreaterOrEqual(t, sum, overflow-float64(len(ids)-1)*0.01-1e-9, "overflow %v", overflow)
	}
}

func TestRedistributeOverflowNoLineItems(t *testing.T) {
	deltas := RedistributeOverflow(0, 600, 500, nil, "")
	assert.Empty(t, deltas)
}

func TestFloorToCent(t *testing.T) {
	assert.Equal(t, 66.66, FloorToCent(66.666666))
	assert.Equal(t, 0.0, FloorToCent(0.009))
	assert.Equal(t, 100.0, FloorToCent(100))
}
