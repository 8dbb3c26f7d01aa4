package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"solecare-backend/internal/models"
	"solecare-backend/internal/services"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CustomerID == "" || req.BranchID == "" {
		utils.Error(w, http.StatusBadRequest, "Customer and branch are required")
		return
	}

	txn, err := h.transactionService.CreateIntake(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrNoShoes) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}
	utils.JSON(w, http.StatusCreated, txn)
}

func (h *TransactionHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	detail, err := h.transactionService.GetDetail(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Transaction not found")
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		txns, err := h.transactionService.ListByCustomer(r.Context(), customerID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to load transactions")
			return
		}
		utils.JSON(w, http.StatusOK, txns)
		return
	}

	branchID := r.URL.Query().Get("branch_id")
	if branchID == "" {
		utils.Error(w, http.StatusBadRequest, "customer_id or branch_id is required")
		return
	}
	txns, err := h.transactionService.ListUnsettled(r.Context(), branchID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}
	utils.JSON(w, http.StatusOK, txns)
}
