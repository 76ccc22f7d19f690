package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careerhub-api/internal/application/registration"
	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// RegistrationHandler handles event-registration endpoints.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SubmitRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	registrationID, err := h.svc.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegistrationEnvelope{
		RegistrationID: registrationID,
		Status:         domain.RegistrationPending,
		Message:        "verification email sent",
	})
}

// VerifyEmail completes the double opt-in. Public endpoint: the emailed link
// carries the token as a query parameter.
func (h *RegistrationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	regs, err := h.svc.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "registration cancelled"})
}
