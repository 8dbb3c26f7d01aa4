package pricing

// ServiceKind distinguishes base services from add-ons that carry a quantity
type ServiceKind string

const (
	ServiceKindStandard   ServiceKind = "standard"
	ServiceKindAdditional ServiceKind = "additional"
)

// CatalogEntry is one priced service offering. Immutable once loaded.
type CatalogEntry struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	BasePrice    float64     `json:"base_price"`
	DurationDays int         `json:"duration_days"`
	Kind         ServiceKind `json:"kind"`
}

// Catalog is a read-only lookup of service entries keyed by id
type Catalog map[string]CatalogEntry

// BuildCatalog indexes a fetched service list by id
func BuildCatalog(entries []CatalogEntry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		c[e.ID] = e
	}
	return c
}

// Lookup returns the entry for id and whether it exists
func (c Catalog) Lookup(id string) (CatalogEntry, bool) {
	e, ok := c[id]
	return e, ok
}

// Price returns the base price for id, or 0 for unknown ids.
// Unknown ids are a data-integrity warning, not a hard failure.
func (c Catalog) Price(id string) float64 {
	return c[id].BasePrice
}
