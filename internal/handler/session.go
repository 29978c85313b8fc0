package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pokernight/cashbox/internal/auth"
	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
	"github.com/pokernight/cashbox/internal/service"
)

// SessionHandler handles the session ledger endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// List handles GET /sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.sessions.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"sessions": infos})
}

// Get handles GET /sessions/{name}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.Snapshot(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}

type addPlayerRequest struct {
	Name   string `json:"name"`
	IsHost bool   `json:"is_host"`
}

// AddPlayer handles POST /sessions/{name}/players.
func (h *SessionHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	snap, err := h.sessions.AddPlayer(r.Context(), chi.URLParam(r, "name"), req.Name, req.IsHost)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}

// RemovePlayer handles DELETE /sessions/{name}/players/{player}.
func (h *SessionHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sessions.RemovePlayer(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "player"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}

type declarePurchaseRequest struct {
	PlayerName string        `json:"player_name"`
	Amount     int64         `json:"amount"`
	Method     domain.Method `json:"method"`
}

// DeclarePurchase handles POST /sessions/{name}/purchases. The declarant
// identity comes from the authenticated token, never from the body.
func (h *SessionHandler) DeclarePurchase(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		RespondError(w, domain.ErrUnauthorized("no claims in context"))
		return
	}

	var req declarePurchaseRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	purchase, err := h.sessions.DeclarePurchase(r.Context(), chi.URLParam(r, "name"), ledger.PurchaseParams{
		PlayerName:        req.PlayerName,
		Amount:            req.Amount,
		Method:            req.Method,
		DeclarantIdentity: claims.Identity,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, purchase)
}

// ValidatePurchase handles POST /sessions/{name}/purchases/{id}/validate.
// The validator is always the authenticated caller.
func (h *SessionHandler) ValidatePurchase(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		RespondError(w, domain.ErrUnauthorized("no claims in context"))
		return
	}

	purchaseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid purchase id"))
		return
	}

	purchase, err := h.sessions.ValidatePurchase(r.Context(), chi.URLParam(r, "name"), purchaseID, claims.Name, claims.Identity)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, purchase)
}

type declareWithdrawalRequest struct {
	PlayerName string        `json:"player_name"`
	ChipsOut   int64         `json:"chips_out"`
	Preference domain.Method `json:"preference"`
}

// DeclareWithdrawal handles POST /sessions/{name}/withdrawals.
func (h *SessionHandler) DeclareWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req declareWithdrawalRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	withdrawal, err := h.sessions.DeclareWithdrawal(r.Context(), chi.URLParam(r, "name"), ledger.WithdrawalParams{
		PlayerName: req.PlayerName,
		ChipsOut:   req.ChipsOut,
		Preference: req.Preference,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, withdrawal)
}

// Settlement handles GET /sessions/{name}/settlement.
func (h *SessionHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.Settlement(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Report handles GET /sessions/{name}/report and renders plain text.
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.sessions.Report(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondText(w, http.StatusOK, report)
}

type closeRequest struct {
	Confirmed bool `json:"confirmed"`
}

// Close handles POST /sessions/{name}/close.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}

	snap, err := h.sessions.Close(r.Context(), chi.URLParam(r, "name"), req.Confirmed)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}
