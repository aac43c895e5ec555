package handler

import (
	"net/http"

	"github.com/uniflow-app/uniflow-api/internal/auth"
	"github.com/uniflow-app/uniflow-api/internal/domain"
	"github.com/uniflow-app/uniflow-api/internal/mapper"
	"github.com/uniflow-app/uniflow-api/internal/repository"
	"github.com/uniflow-app/uniflow-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	userRepo    *repository.UserRepository
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, userRepo *repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Register creates a user account and returns an access token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login verifies credentials and returns an access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTO(user))
}
