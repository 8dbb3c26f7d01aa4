package handlers

import (
	"encoding/json"
	"net/http"

	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type CustomerHandler struct {
	customerRepo *repositories.CustomerRepository
}

func NewCustomerHandler(customerRepo *repositories.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if customer.Name == "" {
		utils.Error(w, http.StatusBadRequest, "Customer name is required")
		return
	}

	if err := h.customerRepo.Create(r.Context(), &customer); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	customer, err := h.customerRepo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Customer not found")
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		customers, err := h.customerRepo.SearchByPhone(r.Context(), phone)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Search failed")
			return
		}
		utils.JSON(w, http.StatusOK, customers)
		return
	}

	customers, err := h.customerRepo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to load customers")
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}
