package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	event, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input events.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), input)
	if err != nil {
		var validationErr events.ValidationError
		switch {
		case errors.As(err, &validationErr):
			problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		case errors.Is(err, events.ErrConflict):
			problem.Write(w, r, http.StatusConflict, typeConflict, "Conflict", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		}
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var patch events.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	existed, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	if !existed {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", nil, h.Env,
			problem.WithDetail("event does not exist"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
