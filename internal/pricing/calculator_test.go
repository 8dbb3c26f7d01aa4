package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return BuildCatalog([]CatalogEntry{
		{ID: "svc-basic", Name: "Basic Clean", BasePrice: 350, DurationDays: 3, Kind: ServiceKindStandard},
		{ID: "svc-deep", Name: "Deep Clean", BasePrice: 550, DurationDays: 5, Kind: ServiceKindStandard},
		{ID: "svc-sole", Name: "Sole Reglue", BasePrice: 400, DurationDays: 7, Kind: ServiceKindStandard},
		{ID: "add-lace", Name: "Lace Replacement", BasePrice: 50, DurationDays: 0, Kind: ServiceKindAdditional},
		{ID: "add-deo", Name: "Deodorizer", BasePrice: 80, DurationDays: 0, Kind: ServiceKindAdditional},
	})
}

func TestComputeShoeSubtotal(t *testing.T) {
	catalog := testCatalog()

	shoe := ShoeDraft{
		Model:       "Air Max 90",
		ServiceIDs:  []string{"svc-basic", "svc-sole"},
		Additionals: map[string]int{"add-lace": 2},
	}
	assert.Equal(t, 350.0+400.0+2*50.0, ComputeShoeSubtotal(shoe, catalog, 100))

	shoe.Rush = true
	assert.Equal(t, 350.0+400.0+2*50.0+100.0, ComputeShoeSubtotal(shoe, catalog, 100))
}

func TestComputeShoeSubtotalUnknownServiceContributesZero(t *testing.T) {
	catalog := testCatalog()

	shoe := ShoeDraft{
		ServiceIDs:  []string{"svc-basic", "svc-ghost"},
		Additionals: map[string]int{"add-ghost": 3},
	}
	assert.Equal(t, 350.0, ComputeShoeSubtotal(shoe, catalog, 100))

	unknown := UnknownServiceIDs(shoe, catalog)
	assert.ElementsMatch(t, []string{"svc-ghost", "add-ghost"}, unknown)
}

func TestComputeShoeSubtotalSkipsNonPositiveQuantities(t *testing.T) {
	catalog := testCatalog()

	shoe := ShoeDraft{
		ServiceIDs:  []string{"svc-basic"},
		Additionals: map[string]int{"add-lace": 0, "add-deo": -2},
	}
	assert.Equal(t, 350.0, ComputeShoeSubtotal(shoe, catalog, 100))
}

func TestComputeBillTotal(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, 0.0, ComputeBillTotal(nil, catalog, 100))

	shoes := []ShoeDraft{
		{ServiceIDs: []string{"svc-basic"}},
		{ServiceIDs: []string{"svc-deep"}, Rush: true},
	}
	assert.Equal(t, 350.0+550.0+100.0, ComputeBillTotal(shoes, catalog, 100))
}

func TestApplyDiscountPercentClamp(t *testing.T) {
	// P1: result stays within [0, billTotal] for all percent inputs
	for _, pct := range []float64{-20, 0, 10, 50, 100, 150} {
		total, discount := ApplyDiscount(1000, DiscountSpec{Kind: DiscountPercent, Value: pct})
		require.GreaterOrEqual(t, total, 0.0, "percent %v", pct)
		require.LessOrEqual(t, total, 1000.0, "percent %v", pct)
		require.InDelta(t, 1000.0, total+discount, 1e-9)
	}

	total, discount := ApplyDiscount(1000, DiscountSpec{Kind: DiscountPercent, Value: 10})
	assert.Equal(t, 900.0, total)
	assert.Equal(t, 100.0, discount)
}

func TestApplyDiscountFixedClamp(t *testing.T) {
	// P1: fixed discounts clamp to the bill total no matter how large
	total, discount := ApplyDiscount(500, DiscountSpec{Kind: DiscountFixed, Value: 10000})
	assert.Equal(t, 0.0, total)
	assert.Equal(t, 500.0, discount)

	total, discount = ApplyDiscount(500, DiscountSpec{Kind: DiscountFixed, Value: -50})
	assert.Equal(t, 500.0, total)
	assert.Equal(t, 0.0, discount)

	total, _ = ApplyDiscount(500, DiscountSpec{Kind: DiscountFixed, Value: 120})
	assert.Equal(t, 380.0, total)
}

func TestScenarioAFullPaymentWithPercentDiscount(t *testing.T) {
	// Bill total 1000, 10% discount → total sales 900. Paying 900 in full
	// marks the transaction PAID and change is customerPaid - 900.
	total, _ := ApplyDiscount(1000, DiscountSpec{Kind: DiscountPercent, Value: 10})
	require.Equal(t, 900.0, total)

	dueNow := ClampDueNow(900, ComputeUpdatedBalance(total, 0, 0))
	assert.Equal(t, 900.0, dueNow)
	assert.Equal(t, StatusPaid, DeriveStatus(0, dueNow, total))
	assert.Equal(t, 100.0, ComputeChange(1000, dueNow))
}
