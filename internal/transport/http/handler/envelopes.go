package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careerhub-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitEnvelope wraps application submission responses. SideEffectsOK is
// false when the record committed but a best-effort side effect failed.
type SubmitEnvelope struct {
	Application   interface{} `json:"application"`
	SideEffectsOK bool        `json:"side_effects_ok"`
}

// RegistrationEnvelope wraps registration submission responses.
type RegistrationEnvelope struct {
	RegistrationID string `json:"registration_id"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a domain error to its HTTP status. ErrAlreadyVerified is
// the idempotent no-op signal and maps to a success response.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email already verified"})
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStore), errors.Is(err, domain.ErrMail):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
