package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemleague/server/internal/api/handlers"
	"github.com/stemleague/server/internal/api/middleware"
	"github.com/stemleague/server/internal/auth"
	"github.com/stemleague/server/internal/auth/oauth"
	"github.com/stemleague/server/internal/config"
	"github.com/stemleague/server/internal/domain/allowlist"
	"github.com/stemleague/server/internal/domain/checkins"
	"github.com/stemleague/server/internal/domain/events"
	"github.com/stemleague/server/internal/domain/teams"
	"github.com/stemleague/server/internal/domain/users"
	"github.com/stemleague/server/internal/metrics"
	"github.com/stemleague/server/internal/storage/postgres"
)

// NewRouter wires repositories, services, and handlers into the HTTP
// surface. All routes are instrumented; request logging and CORS wrap the
// whole mux.
func NewRouter(cfg config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	usersService := users.NewService(repo.Users())
	eventsService := events.NewService(repo.Events())
	teamsService := teams.NewService(repo.Teams(), repo.Events(), repo.Users(), logger)
	checkinsService := checkins.NewService(repo.Checkins())
	allowlistService := allowlist.NewService(repo.Allowlist())

	sessions := auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.SessionExpiry)
	admins := auth.NewAdminManager(cfg.Auth.JWTSecret, cfg.Auth.AdminPasswordHash, cfg.Auth.AdminExpiry)
	states := auth.NewStateStore(auth.DefaultStateTTL)
	google := oauth.NewGoogleClient(oauth.GoogleConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
	})
	authService := auth.NewService(google, allowlistService, repo.Users(), sessions, states, logger)

	authHandler := handlers.NewAuthHandler(authService, usersService, admins, cfg.Auth.SessionExpiry, cfg.Server.FrontendURL, cfg.Environment)
	allowlistHandler := handlers.NewAllowlistHandler(allowlistService, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	teamsHandler := handlers.NewTeamsHandler(teamsService, cfg.Environment)
	checkinsHandler := handlers.NewCheckinsHandler(checkinsService, teamsService, cfg.Environment)

	requireSession := middleware.SessionAuth(sessions, cfg.Environment)
	requireAdmin := middleware.AdminAuth(admins, cfg.Environment)

	m := metrics.New()
	mux := http.NewServeMux()
	route := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, m.Instrument(pattern, handler))
	}

	route("/healthz", handlers.Healthz())
	route("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", m.Handler())

	route("/auth/login", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.Login),
	}))
	route("/auth/callback", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(authHandler.Callback),
	}))
	route("/auth/me", methodMux(map[string]http.Handler{
		http.MethodGet: requireSession(http.HandlerFunc(authHandler.Me)),
	}))
	route("/auth/logout", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Logout),
	}))
	route("/auth/admin/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.AdminLogin),
	}))
	route("/auth/whitelist", methodMux(map[string]http.Handler{
		http.MethodGet:  requireAdmin(http.HandlerFunc(allowlistHandler.List)),
		http.MethodPost: requireAdmin(http.HandlerFunc(allowlistHandler.Add)),
	}))
	route("/auth/whitelist/{email}", methodMux(map[string]http.Handler{
		http.MethodDelete: requireAdmin(http.HandlerFunc(allowlistHandler.Remove)),
	}))
	route("/auth/users", methodMux(map[string]http.Handler{
		http.MethodGet: requireAdmin(http.HandlerFunc(authHandler.ListUsers)),
	}))

	route("/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: requireAdmin(http.HandlerFunc(eventsHandler.Create)),
	}))
	route("/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPatch:  requireAdmin(http.HandlerFunc(eventsHandler.Update)),
		http.MethodDelete: requireAdmin(http.HandlerFunc(eventsHandler.Delete)),
	}))

	route("/teams", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(teamsHandler.List),
		http.MethodPost: requireSession(http.HandlerFunc(teamsHandler.Create)),
	}))
	route("/teams/me", methodMux(map[string]http.Handler{
		http.MethodGet: requireSession(http.HandlerFunc(teamsHandler.Mine)),
	}))
	route("/teams/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(teamsHandler.Get),
		http.MethodPatch:  requireSession(http.HandlerFunc(teamsHandler.Update)),
		http.MethodDelete: requireAdmin(http.HandlerFunc(teamsHandler.Delete)),
	}))

	route("/teams/{id}/checkins", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(checkinsHandler.ListForTeam),
		http.MethodPost: requireSession(http.HandlerFunc(checkinsHandler.Create)),
	}))
	route("/checkins/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(checkinsHandler.Get),
		http.MethodDelete: requireAdmin(http.HandlerFunc(checkinsHandler.Delete)),
	}))

	var handler http.Handler = mux
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CORS(cfg.Server.FrontendURL, cfg.Environment, logger)(handler)
	return handler, nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
