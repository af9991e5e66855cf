package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/target/gallery-ui/internal/adapters/cookies"
	"github.com/target/gallery-ui/internal/ports"
	"github.com/target/gallery-ui/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{
						Code:    http.StatusInternalServerError,
						Message: http.StatusText(http.StatusInternalServerError),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// credentialsKey carries the per-request cookie jar so every layer of one request
// observes the same token writes.
type credentialsKey struct{}

// Credentials returns a middleware that attaches a per-request cookie jar.
func Credentials(opts cookies.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jar := cookies.New(w, r, opts)
			ctx := context.WithValue(r.Context(), credentialsKey{}, jar)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credentialsFor returns the request's jar, creating one when the middleware was not used.
func credentialsFor(w http.ResponseWriter, r *http.Request, opts cookies.Options) ports.CredentialStore {
	if jar, ok := r.Context().Value(credentialsKey{}).(*cookies.Jar); ok {
		return jar
	}
	return cookies.New(w, r, opts)
}

// RequireSession guards a subtree with a RoleGate. Browsers that fail the gate are
// redirected to the login page with a redirect_uri; API callers get a JSON 401.
func RequireSession(
	resolver ports.PrincipalResolver,
	loginPath string,
	opts cookies.Options,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := credentialsFor(w, r, opts)
			gate := service.NewRoleGate(resolver, loginPath)
			if gate.Decide(r.Context(), creds, r.URL.RequestURI()) != service.PhaseAdmitted {
				if IsBrowserRequest(r) {
					http.Redirect(w, r, gate.RedirectTo(), http.StatusSeeOther)
					return
				}
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Not authenticated"})
				return
			}
			p, _ := gate.Principal()
			ctx := SetPrincipalInContext(r.Context(), p)
			ctx = context.WithValue(ctx, credentialsKey{}, creds)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// Downstream handlers use it to choose between a redirect and a JSON error.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats everything under /api/ as an API call; elsewhere a request
// that accepts HTML, or states no preference, is a browser navigation.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html")
}
