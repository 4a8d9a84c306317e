package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/stemleague/server/internal/api/middleware"
	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/auth"
	"github.com/stemleague/server/internal/domain/users"
)

type AuthHandler struct {
	Auth        *auth.Service
	Users       *users.Service
	Admins      *auth.AdminManager
	SessionTTL  time.Duration
	FrontendURL string
	Env         string
}

func NewAuthHandler(authService *auth.Service, usersService *users.Service, admins *auth.AdminManager, sessionTTL time.Duration, frontendURL, env string) *AuthHandler {
	return &AuthHandler{
		Auth:        authService,
		Users:       usersService,
		Admins:      admins,
		SessionTTL:  sessionTTL,
		FrontendURL: frontendURL,
		Env:         env,
	}
}

type loginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// Login starts the OAuth flow: it hands the client the provider
// authorization URL with a fresh state nonce embedded.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.Auth.BeginLogin()
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AuthURL: authURL, State: state})
}

// Callback completes the OAuth flow. On success the session credential is
// set as an HttpOnly cookie and the browser is redirected back to the
// frontend with the token in the query string for clients that prefer
// bearer auth.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	_, token, err := h.Auth.CompleteLogin(r.Context(), code, state)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			problem.Write(w, r, http.StatusForbidden, typeForbidden, "Forbidden", err, h.Env)
		case errors.Is(err, auth.ErrUnauthorized):
			problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Unauthorized", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Env != "development",
		SameSite: http.SameSiteLaxMode,
	})

	redirect := h.FrontendURL + "/auth/callback?token=" + url.QueryEscape(token)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// Me returns the user behind the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Unauthorized", auth.ErrMissingToken, h.Env)
		return
	}

	user, err := h.Users.Get(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, typeNotFound, "Not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. Tokens are stateless so the credential
// itself stays valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	AdminToken string    `json:"admin_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// AdminLogin exchanges the admin password for a short-lived admin credential.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid request", err, h.Env)
		return
	}

	token, err := h.Admins.Login(req.Password)
	if err != nil {
		problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Unauthorized", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, adminLoginResponse{
		AdminToken: token,
		ExpiresAt:  time.Now().Add(h.Admins.Expiry()).UTC(),
	})
}

// ListUsers returns every registered user, oldest first. Admin only.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, typeServerError, "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": list})
}
