package models

import "solecare-backend/internal/pricing"

// Service is a catalog entry: a standard repair/cleaning service or a
// quantity-priced additional. Fetched once per session and read-only after.
type Service struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	BasePrice    float64             `json:"base_price"`
	DurationDays int                 `json:"duration_days"`
	Kind         pricing.ServiceKind `json:"kind"`
}

type CreateServiceRequest struct {
	Name         string              `json:"name"`
	BasePrice    float64             `json:"base_price"`
	DurationDays int                 `json:"duration_days"`
	Kind         pricing.ServiceKind `json:"kind"`
}

// CatalogEntry converts to the pricing package's lookup shape
func (s *Service) CatalogEntry() pricing.CatalogEntry {
	return pricing.CatalogEntry{
		ID:           s.ID,
		Name:         s.Name,
		BasePrice:    s.BasePrice,
		DurationDays: s.DurationDays,
		Kind:         s.Kind,
	}
}
