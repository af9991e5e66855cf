package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/gallery-ui/internal/adapters/cookies"
	"github.com/target/gallery-ui/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Profiles ProfileServiceInterface
	Identity IdentityServiceInterface
	Resolver ports.PrincipalResolver

	Cookies   cookies.Options
	LoginPath string
	// Metrics, when set, is served at GET /metrics.
	Metrics http.Handler
	// Health dependencies pinged by /healthz.
	Health []Pinger
	Dev    bool
	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	health := healthHandler(services.Health...)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics)
	}

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc: services.Auth, Cookies: services.Cookies, Dev: services.Dev, Logger: services.Logger,
		})
	}
	if services.Profiles != nil {
		registerProfileRoutes(mux, &ProfileHandlers{
			Svc: services.Profiles, Cookies: services.Cookies, Dev: services.Dev, Logger: services.Logger,
		})
	}
	if services.Identity != nil {
		h := &IdentityHandlers{Svc: services.Identity, Cookies: services.Cookies, Logger: services.Logger}
		mux.HandleFunc("GET /api/identity", h.Current)
	}
	if services.Resolver != nil {
		registerDashboardRoutes(mux, RequireSession(services.Resolver, services.LoginPath, services.Cookies))
	}

	handler := Credentials(services.Cookies)(mux)
	return BrowserDetection()(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/refresh", h.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)
	mux.HandleFunc("POST /api/auth/change-password", h.ChangePassword)
}

func registerProfileRoutes(mux *http.ServeMux, h *ProfileHandlers) {
	mux.HandleFunc("GET /api/profiles/artists", h.ListArtists)
	mux.HandleFunc("GET /api/profiles/{kind}", h.Get)
	mux.HandleFunc("PATCH /api/profiles/{kind}", h.Update)
}

func registerDashboardRoutes(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	shell := guard(http.HandlerFunc(dashboardHandler))
	mux.Handle("GET /dashboard", shell)
	mux.Handle("GET /dashboard/{area}", shell)
}
