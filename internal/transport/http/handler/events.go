package handler

import (
	"encoding/json"
	"net/http"

	"github.com/careerhub-api/internal/application/event"
	"github.com/careerhub-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// EventHandler handles career-event endpoints.
type EventHandler struct {
	svc event.Service
}

func NewEventHandler(svc event.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
