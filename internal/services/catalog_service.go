package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"solecare-backend/internal/cache"
	"solecare-backend/internal/models"
	"solecare-backend/internal/pricing"
	"solecare-backend/internal/repositories"
)

const catalogTTL = 10 * time.Minute

// CatalogService serves the priced service list. The list changes rarely
// and every intake screen needs it, so it is cached in Redis.
type CatalogService struct {
	serviceRepo *repositories.ServiceRepository
}

func NewCatalogService(serviceRepo *repositories.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

func (s *CatalogService) List(ctx context.Context) ([]*models.Service, error) {
	if data, ok := cache.GetCached(ctx, cache.CatalogKey); ok {
		var services []*models.Service
		if err := json.Unmarshal(data, &services); err == nil {
			return services, nil
		}
	}

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(services); err == nil {
		cache.SetCached(ctx, cache.CatalogKey, data, catalogTTL)
	}
	return services, nil
}

// Catalog builds the id-indexed pricing catalog from the cached list
func (s *CatalogService) Catalog(ctx context.Context) (pricing.Catalog, error) {
	services, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]pricing.CatalogEntry, 0, len(services))
	for _, svc := range services {
		entries = append(entries, svc.CatalogEntry())
	}
	return pricing.BuildCatalog(entries), nil
}

func (s *CatalogService) Create(ctx context.Context, service *models.Service) error {
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return err
	}
	cache.InvalidateCatalogCaches(ctx)
	log.Printf("[Catalog] created service %s (%s)", service.Name, service.ID)
	return nil
}
