package handlers

import (
	"encoding/json"
	"net/http"

	"solecare-backend/internal/models"
	"solecare-backend/internal/services"
	"solecare-backend/pkg/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load services")
		return
	}
	utils.JSON(w, http.StatusOK, services)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.BasePrice < 0 {
		utils.Error(w, http.StatusBadRequest, "Name and a non-negative base price are required")
		return
	}

	service := &models.Service{
		Name:         req.Name,
		BasePrice:    req.BasePrice,
		DurationDays: req.DurationDays,
		Kind:         req.Kind,
	}
	if err := h.catalogService.Create(r.Context(), service); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create service")
		return
	}
	utils.JSON(w, http.StatusCreated, service)
}
