package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stemleague/server/internal/api/middleware"
	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/auth"
	"github.com/stemleague/server/internal/domain/checkins"
	"github.com/stemleague/server/internal/domain/teams"
)

type CheckinsHandler struct {
	Service *checkins.Service
	Teams   *teams.Service
	Env     string
}

func NewCheckinsHandler(service *checkins.Service, teamsService *teams.Service, env string) *CheckinsHandler {
	return &CheckinsHandler{Service: service, Teams: teamsService, Env: env}
}

type checkinRequest struct {
	Links []string `json:"links"`
}

// Create records a checkin for a team. The session user must be the team's
// captain or one of its members.
func (h *CheckinsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	teamID := pathParam(r, "id")
	isMember, err := h.Teams.IsMember(r.Context(), claims.Subject, teamID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	if !isMember {
		problem.Write(w, r, http.StatusForbidden, typeForbidden, "Forbidden", nil, h.Env,
			problem.WithDetail("only team members can check in"))
		return
	}

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	checkin, err := h.Service.Create(r.Context(), teamID, req.Links)
	if err != nil {
		var validationErr checkins.ValidationError
		if errors.As(err, &validationErr) {
			problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, checkin)
}

// ListForTeam returns a team's checkins, newest first.
func (h *CheckinsHandler) ListForTeam(w http.ResponseWriter, r *http.Request) {
	teamID := pathParam(r, "id")

	list, err := h.Service.ListForTeam(r.Context(), teamID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CheckinsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	checkin, err := h.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, checkins.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, checkin)
}

func (h *CheckinsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	existed, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	if !existed {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", nil, h.Env,
			problem.WithDetail("checkin does not exist"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
