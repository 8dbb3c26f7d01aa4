package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"solecare-backend/internal/models"
	"solecare-backend/internal/services"
	"solecare-backend/internal/timeutil"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CustomerID == "" || req.BranchID == "" {
		utils.Error(w, http.StatusBadRequest, "Customer and branch are required")
		return
	}

	appointment, err := h.appointmentService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrAppointmentInPast) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to create appointment")
		return
	}
	utils.JSON(w, http.StatusCreated, appointment)
}

// ListDay serves a branch's appointments for one date (?date=2006-01-02)
func (h *AppointmentHandler) ListDay(w http.ResponseWriter, r *http.Request) {
	branchID := r.URL.Query().Get("branch_id")
	if branchID == "" {
		utils.Error(w, http.StatusBadRequest, "branch_id is required")
		return
	}

	day := timeutil.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := timeutil.ParseInPHT(timeutil.DateLayout, dateStr)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	appointments, err := h.appointmentService.ListDay(r.Context(), branchID, day)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load appointments")
		return
	}
	utils.JSON(w, http.StatusOK, appointments)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Status {
	case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled, models.AppointmentNoShow:
	default:
		utils.Error(w, http.StatusBadRequest, "Unknown appointment status")
		return
	}

	if err := h.appointmentService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to update appointment")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
