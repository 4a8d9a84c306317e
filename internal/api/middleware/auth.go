package middleware

import (
	"context"
	"net/http"

	"github.com/stemleague/server/internal/api/problem"
	"github.com/stemleague/server/internal/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the cookie the callback handler sets; the middleware
// accepts it as an alternative to the Authorization header.
const SessionCookieName = "session"

// SessionAuth admits requests carrying a valid session credential, either as
// a bearer token or as the session cookie. The verified claims are attached
// to the request context. Admin credentials are not accepted here.
func SessionAuth(sessions *auth.SessionManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				if cookie, cookieErr := r.Cookie(SessionCookieName); cookieErr == nil {
					token = cookie.Value
				}
			}

			claims, err := sessions.Verify(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					"https://stemleague.org/problems/unauthorized", "Unauthorized", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the claims attached by SessionAuth.
func SessionFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(*auth.SessionClaims)
	return claims, ok
}

// AdminAuth admits requests carrying a valid admin credential in the
// X-Admin-Token header. Session credentials are not accepted here.
func AdminAuth(admins *auth.AdminManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := admins.Verify(r.Header.Get("X-Admin-Token")); err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					"https://stemleague.org/problems/unauthorized", "Unauthorized", err, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
