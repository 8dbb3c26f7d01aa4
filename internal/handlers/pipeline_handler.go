package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"solecare-backend/internal/middleware"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/internal/services"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PipelineHandler struct {
	pipelineService *services.PipelineService
	settingRepo     *repositories.SystemSettingRepository
	names           *services.NameResolver
}

func NewPipelineHandler(pipelineService *services.PipelineService, settingRepo *repositories.SystemSettingRepository, names *services.NameResolver) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService, settingRepo: settingRepo, names: names}
}

// QueueRow is a line item annotated with the owning customer's name
type QueueRow struct {
	*models.LineItem
	CustomerName string `json:"customer_name"`
}

func (h *PipelineHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	item, err := h.pipelineService.Transition(r.Context(), id, req.ToStatus, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTransition):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrBalanceOutstanding):
			utils.Error(w, http.StatusConflict, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, "Transition failed")
		}
		return
	}
	utils.JSON(w, http.StatusOK, item)
}

// Queue lists line items at a single pipeline status
func (h *PipelineHandler) Queue(w http.ResponseWriter, r *http.Request) {
	status := models.LineItemStatus(mux.Vars(r)["status"])

	valid := false
	for _, s := range models.PipelineOrder {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		utils.Error(w, http.StatusBadRequest, "Unknown pipeline status")
		return
	}

	items, err := h.pipelineService.Queue(r.Context(), status)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load queue")
		return
	}

	rows := make([]QueueRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, QueueRow{
			LineItem:     item,
			CustomerName: h.names.CustomerNameForTransaction(r.Context(), item.TransactionID),
		})
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *PipelineHandler) History(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	events, err := h.pipelineService.History(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	utils.JSON(w, http.StatusOK, events)
}

// FeeDiagnostics returns the recomputed per-item storage-fee breakdown for
// a transaction so clients can verify it against the persisted totals
func (h *PipelineHandler) FeeDiagnostics(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["id"]
	graceDays := h.settingRepo.GetInt(r.Context(), models.SettingStorageGraceDays, services.DefaultStorageGraceDays)
	ratePerDay := h.settingRepo.GetFloat(r.Context(), models.SettingStorageFeePerDay, services.DefaultStorageFeePerDay)

	diag, err := h.pipelineService.FeeDiagnostics(r.Context(), transactionID, graceDays, ratePerDay)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to compute fee diagnostics")
		return
	}
	utils.JSON(w, http.StatusOK, diag)
}

// ClearFees waives a transaction's accrued storage fees
func (h *PipelineHandler) ClearFees(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["id"]
	if err := h.pipelineService.ClearFees(r.Context(), transactionID); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to clear storage fees")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// AccrueFees triggers the daily storage-fee accrual. Normally invoked by a
// scheduler; exposed so an admin can run it manually after downtime.
func (h *PipelineHandler) AccrueFees(w http.ResponseWriter, r *http.Request) {
	graceDays := h.settingRepo.GetInt(r.Context(), models.SettingStorageGraceDays, services.DefaultStorageGraceDays)
	ratePerDay := h.settingRepo.GetFloat(r.Context(), models.SettingStorageFeePerDay, services.DefaultStorageFeePerDay)

	accrued, err := h.pipelineService.AccrueStorageFees(r.Context(), graceDays, ratePerDay)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Accrual failed")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"items_accrued": accrued})
}
