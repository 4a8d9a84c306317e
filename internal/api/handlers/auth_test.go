package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemleague/server/internal/api/middleware"
	"github.com/stemleague/server/internal/auth"
	"github.com/stemleague/server/internal/auth/oauth"
	"github.com/stemleague/server/internal/domain/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeBridge struct{}

func (fakeBridge) GenerateAuthURL(state string) string {
	return "https://provider.example.com/authorize?state=" + state
}

func (fakeBridge) ExchangeCode(ctx context.Context, code string) (string, error) {
	return "access-token", nil
}

func (fakeBridge) FetchUserProfile(ctx context.Context, accessToken string) (*oauth.GoogleUser, error) {
	return &oauth.GoogleUser{
		ID:    "google-42",
		Email: "captain@example.com",
		Name:  "Cap Tain",
	}, nil
}

type fakeGate struct{ allowed bool }

func (g fakeGate) IsAllowed(ctx context.Context, email string) (bool, error) {
	return g.allowed, nil
}

type fakeUsersRepo struct{}

func (fakeUsersRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return &users.User{ID: id, Email: "captain@example.com", Name: "Cap Tain"}, nil
}

func (fakeUsersRepo) Upsert(ctx context.Context, params users.UpsertParams) (*users.User, error) {
	return &users.User{ID: "user-1", Email: params.Email, Name: params.Name, GoogleID: params.GoogleID}, nil
}

func (fakeUsersRepo) List(ctx context.Context) ([]users.User, error) { return nil, nil }

func newAuthFixture(t *testing.T, allowed bool) (*AuthHandler, *auth.Service) {
	t.Helper()
	sessions := auth.NewSessionManager("test-secret", time.Hour)
	states := auth.NewStateStore(time.Minute)
	service := auth.NewService(fakeBridge{}, fakeGate{allowed: allowed}, fakeUsersRepo{}, sessions, states, zerolog.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	admins := auth.NewAdminManager("test-secret", string(hash), time.Hour)

	usersService := users.NewService(fakeUsersRepo{})
	handler := NewAuthHandler(service, usersService, admins, time.Hour, "http://localhost:3000", "test")
	return handler, service
}

func beginLogin(t *testing.T, service *auth.Service) string {
	t.Helper()
	_, state, err := service.BeginLogin()
	require.NoError(t, err)
	return state
}

func TestCallbackSetsCookieAndRedirects(t *testing.T) {
	handler, service := newAuthFixture(t, true)
	state := beginLogin(t, service)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state="+url.QueryEscape(state), nil)
	rec := httptest.NewRecorder()
	handler.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "http://localhost:3000/auth/callback?token="), location)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)
	require.NotEmpty(t, sessionCookie.Value)
}

func TestCallbackForbiddenEmail(t *testing.T) {
	handler, service := newAuthFixture(t, false)
	state := beginLogin(t, service)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state="+url.QueryEscape(state), nil)
	rec := httptest.NewRecorder()
	handler.Callback(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCallbackBadState(t *testing.T) {
	handler, _ := newAuthFixture(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=auth-code&state=forged", nil)
	rec := httptest.NewRecorder()
	handler.Callback(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin(t *testing.T) {
	handler, _ := newAuthFixture(t, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login", strings.NewReader(`{"password":"hunter2"}`))
	rec := httptest.NewRecorder()
	handler.AdminLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "admin_token")

	req = httptest.NewRequest(http.MethodPost, "/auth/admin/login", strings.NewReader(`{"password":"wrong"}`))
	rec = httptest.NewRecorder()
	handler.AdminLogin(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	handler, _ := newAuthFixture(t, true)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestLoginReturnsAuthURL(t *testing.T) {
	handler, _ := newAuthFixture(t, true)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "auth_url")
	require.Contains(t, rec.Body.String(), "provider.example.com")
}
