package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"solecare-backend/internal/models"
	"solecare-backend/internal/services"
	"solecare-backend/pkg/utils"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.Error(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrAccountDisabled):
			utils.Error(w, http.StatusForbidden, "Account is disabled")
		default:
			utils.Error(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
