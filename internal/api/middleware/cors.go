package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// CORS admits browser requests from the configured frontend origin. In
// development any localhost origin is also admitted. Preflight OPTIONS
// requests are answered directly with 204.
func CORS(frontendURL, environment string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if originAllowed(origin, frontendURL, environment) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, X-Admin-Token")
				w.Header().Set("Access-Control-Max-Age", "86400")
			} else {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("CORS request rejected: origin not allowed")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin, frontendURL, environment string) bool {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if origin == strings.ToLower(strings.TrimSpace(frontendURL)) {
		return true
	}
	if environment == "development" {
		return strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			origin == "http://localhost" || origin == "http://127.0.0.1"
	}
	return false
}
