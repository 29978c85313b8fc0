package handler

import (
	"net/http"

	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type authResponse struct {
	Account *domain.Account `json:"account"`
	Token   string          `json:"token"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var params service.RegisterParams
	if err := DecodeJSON(r, &params); err != nil {
		RespondError(w, err)
		return
	}

	account, token, err := h.authSvc.Register(r.Context(), params)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, authResponse{Account: account, Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	account, token, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, authResponse{Account: account, Token: token})
}
