package handlers

import (
	"encoding/json"
	"net/http"

	"solecare-backend/internal/cache"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/pkg/utils"
)

type BranchHandler struct {
	branchRepo *repositories.BranchRepository
}

func NewBranchHandler(branchRepo *repositories.BranchRepository) *BranchHandler {
	return &BranchHandler{branchRepo: branchRepo}
}

// List serves the branch descriptors charts and exports are driven by.
// Cached in Redis since the branch set changes rarely.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	if data, ok := cache.GetCached(r.Context(), cache.BranchListKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	branches, err := h.branchRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load branches")
		return
	}

	if data, err := json.Marshal(branches); err == nil {
		cache.SetCached(r.Context(), cache.BranchListKey, data, cache.BranchListTTL)
	}
	utils.JSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var branch models.Branch
	if err := json.NewDecoder(r.Body).Decode(&branch); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if branch.Code == "" || branch.DisplayName == "" {
		utils.Error(w, http.StatusBadRequest, "Code and display name are required")
		return
	}
	if branch.DataKey == "" {
		branch.DataKey = branch.Code
	}
	if branch.ForecastKey == "" {
		branch.ForecastKey = branch.Code + "_forecast"
	}

	if err := h.branchRepo.Create(r.Context(), &branch); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create branch")
		return
	}
	cache.InvalidateBranchCaches(r.Context())
	utils.JSON(w, http.StatusCreated, branch)
}
