package handlers

import (
	"encoding/json"
	"net/http"

	"solecare-backend/internal/repositories"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SystemSettingHandler struct {
	settingRepo *repositories.SystemSettingRepository
}

func NewSystemSettingHandler(settingRepo *repositories.SystemSettingRepository) *SystemSettingHandler {
	return &SystemSettingHandler{settingRepo: settingRepo}
}

func (h *SystemSettingHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	utils.JSON(w, http.StatusOK, settings)
}

func (h *SystemSettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	setting, err := h.settingRepo.Get(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Setting not found")
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

func (h *SystemSettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settingRepo.Set(r.Context(), key, req.Value); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}
	setting, err := h.settingRepo.Get(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to reload setting")
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}
