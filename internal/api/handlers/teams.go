package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stemleague/server/internal/api/middleware"
	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/auth"
	"github.com/stemleague/server/internal/domain/teams"
)

type TeamsHandler struct {
	Service *teams.Service
	Env     string
}

func NewTeamsHandler(service *teams.Service, env string) *TeamsHandler {
	return &TeamsHandler{Service: service, Env: env}
}

func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	team, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, teams.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// Mine lists every team the session user captains or belongs to.
func (h *TeamsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	list, err := h.Service.ListForUser(r.Context(), claims.Subject)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input teams.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	team, err := h.Service.Create(r.Context(), input)
	if err != nil {
		var validationErr teams.ValidationError
		if errors.As(err, &validationErr) {
			problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	var input teams.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	team, err := h.Service.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, teams.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	existed, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	if !existed {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", nil, h.Env,
			problem.WithDetail("team does not exist"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
