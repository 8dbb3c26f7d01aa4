package services

import (
	"context"
	"errors"
	"log"

	"solecare-backend/internal/auth"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidRole        = errors.New("role must be admin, cashier or technician")
)

// UserService handles signup and login
type UserService struct {
	userRepo *repositories.UserRepository
	jwt      *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{userRepo: userRepo, jwt: jwt}
}

func validRole(role string) bool {
	switch role {
	case "admin", "cashier", "technician":
		return true
	}
	return false
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if !validRole(req.Role) {
		return nil, ErrInvalidRole
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[Auth] signup: %s (%s)", user.Email, user.Role)
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}
