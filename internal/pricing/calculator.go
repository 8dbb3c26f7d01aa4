package pricing

// ShoeDraft is a client-side intake row before submission. Additionals map
// service id to quantity; a quantity below 1 means "not selected" and is
// removed at the mutation boundary, not here.
type ShoeDraft struct {
	Model       string         `json:"model"`
	ServiceIDs  []string       `json:"service_ids"`
	Additionals map[string]int `json:"additionals"`
	Rush        bool           `json:"rush"`
}

// DiscountKind selects between a percentage and a fixed-amount discount
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

type DiscountSpec struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// ComputeShoeSubtotal sums the selected standard services (each occurrence
// counts once), the additionals times quantity, and the rush fee when rush
// is set. Unknown service ids contribute 0.
func ComputeShoeSubtotal(shoe ShoeDraft, catalog Catalog, rushFee float64) float64 {
	subtotal := 0.0
	for _, id := range shoe.ServiceIDs {
		subtotal += catalog.Price(id)
	}
	for id, qty := range shoe.Additionals {
		if qty < 1 {
			continue
		}
		subtotal += catalog.Price(id) * float64(qty)
	}
	if shoe.Rush {
		subtotal += rushFee
	}
	return subtotal
}

// ComputeBillTotal aggregates per-shoe subtotals. Zero shoes yields 0.
func ComputeBillTotal(shoes []ShoeDraft, catalog Catalog, rushFee float64) float64 {
	total := 0.0
	for _, shoe := range shoes {
		total += ComputeShoeSubtotal(shoe, catalog, rushFee)
	}
	return total
}

// ApplyDiscount applies spec to billTotal and returns the discounted total
// and the discount amount actually applied. Percent values are clamped to
// [0,100] and fixed values to [0,billTotal]; the result is never negative.
func ApplyDiscount(billTotal float64, spec DiscountSpec) (total, discount float64) {
	switch spec.Kind {
	case DiscountPercent:
		pct := spec.Value
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		discount = billTotal * pct / 100
	case DiscountFixed:
		discount = spec.Value
		if discount < 0 {
			discount = 0
		}
		if discount > billTotal {
			discount = billTotal
		}
	}
	total = billTotal - discount
	if total < 0 {
		total = 0
	}
	return total, discount
}

// UnknownServiceIDs reports service ids on the shoe that are missing from
// the catalog, for surfacing a data-integrity warning at the call site.
func UnknownServiceIDs(shoe ShoeDraft, catalog Catalog) []string {
	var unknown []string
	for _, id := range shoe.ServiceIDs {
		if _, ok := catalog.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	for id := range shoe.Additionals {
		if _, ok := catalog.Lookup(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
