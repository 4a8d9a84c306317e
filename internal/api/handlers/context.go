package handlers

import (
	"encoding/json"
	"net/http"
)

// Problem type URIs shared by all handlers.
const (
	typeValidation   = "https://stemleague.org/problems/validation-error"
	typeUnauthorized = "https://stemleague.org/problems/unauthorized"
	typeForbidden    = "https://stemleague.org/problems/forbidden"
	typeNotFound     = "https://stemleague.org/problems/not-found"
	typeConflict     = "https://stemleague.org/problems/conflict"
	typeServerError  = "https://stemleague.org/problems/server-error"
)

func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
