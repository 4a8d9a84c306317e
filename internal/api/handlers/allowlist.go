package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/domain/allowlist"
)

// AllowlistHandler exposes the admin-only whitelist management endpoints.
type AllowlistHandler struct {
	Service *allowlist.Service
	Env     string
}

func NewAllowlistHandler(service *allowlist.Service, env string) *AllowlistHandler {
	return &AllowlistHandler{Service: service, Env: env}
}

func (h *AllowlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"whitelist": entries})
}

type allowlistRequest struct {
	Email string `json:"email"`
}

func (h *AllowlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req allowlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", nil, h.Env,
			problem.WithDetail("email must be a non-empty address"))
		return
	}

	if err := h.Service.Add(r.Context(), email); err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": strings.ToLower(email)})
}

func (h *AllowlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	email := pathParam(r, "email")

	existed, err := h.Service.Remove(r.Context(), email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	if !existed {
		problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", nil, h.Env,
			problem.WithDetail("email not on the whitelist"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
