package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"solecare-backend/internal/middleware"
	"solecare-backend/internal/models"
	"solecare-backend/internal/services"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	receiptService *services.ReceiptService
}

func NewPaymentHandler(paymentService *services.PaymentService, receiptService *services.ReceiptService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, receiptService: receiptService}
}

func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TransactionID == "" {
		utils.Error(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.paymentService.ProcessPayment(r.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCashierRequired),
			errors.Is(err, services.ErrDueNowOutOfRange),
			errors.Is(err, services.ErrInsufficientTender),
			errors.Is(err, services.ErrAmbiguousRelease):
			utils.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrBalanceNotZero):
			utils.Error(w, http.StatusConflict, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, "Payment failed")
		}
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

// Ledger serves the date-sorted payment history of a transaction
func (h *PaymentHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["id"]
	ledger, err := h.paymentService.ReconstructLedger(r.Context(), transactionID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load payment history")
		return
	}
	if ledger == nil {
		ledger = []*models.PaymentRecord{}
	}
	utils.JSON(w, http.StatusOK, ledger)
}

// Receipt re-renders a receipt PDF for a past payment
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	receiptNumber := mux.Vars(r)["receiptNumber"]
	data, err := h.paymentService.ReceiptForNumber(r.Context(), receiptNumber)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Receipt not found")
		return
	}

	pdfBytes, err := h.receiptService.Render(data)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, receiptNumber))
	w.Write(pdfBytes)
}
