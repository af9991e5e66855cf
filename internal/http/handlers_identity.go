package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/target/gallery-ui/internal/adapters/cookies"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/ports"
	"github.com/target/gallery-ui/internal/service"
)

// BrowserCookieName identifies a browser for the demo identity record.
const BrowserCookieName = "demo_browser"

const browserCookieMaxAge = 30 * 24 * 3600

// IdentityServiceInterface resolves the current identity source.
type IdentityServiceInterface interface {
	Current(ctx context.Context, creds ports.CredentialStore, browserID string) (domainauth.IdentitySource, error)
}

// IdentityHandlers serves GET /api/identity.
type IdentityHandlers struct {
	Svc     IdentityServiceInterface
	Cookies cookies.Options
	Logger  *slog.Logger
}

func (h *IdentityHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Current handles GET /api/identity.
func (h *IdentityHandlers) Current(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFor(w, r, h.Cookies)
	src, err := h.Svc.Current(r.Context(), creds, h.browserID(w, r, creds))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "resolve identity failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"source": src.Kind(),
		"user":   identityUser(src),
	})
}

// browserID returns the browser cookie, issuing one when the browser has no session and
// no id yet. With any session token present the demo record is never consulted, so no id is issued.
func (h *IdentityHandlers) browserID(w http.ResponseWriter, r *http.Request, creds ports.CredentialStore) string {
	if c, err := r.Cookie(BrowserCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if service.HasSession(creds) {
		return ""
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     BrowserCookieName,
		Value:    id,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   !h.Cookies.Insecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   browserCookieMaxAge,
	})
	return id
}

func identityUser(src domainauth.IdentitySource) any {
	switch s := src.(type) {
	case domainauth.SessionIdentity:
		return s.Principal
	case domainauth.DemoIdentitySource:
		return s.Identity
	default:
		return nil
	}
}
