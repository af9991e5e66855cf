package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/gallery-ui/internal/adapters/cookies"
	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
	"github.com/target/gallery-ui/internal/ports"
	"github.com/target/gallery-ui/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds ports.CredentialStore, in service.LoginInput) proxy.Envelope
	Register(ctx context.Context, creds ports.CredentialStore, form map[string]any) proxy.Envelope
	Refresh(ctx context.Context, creds ports.CredentialStore, refreshToken string) proxy.Envelope
	Logout(ctx context.Context, creds ports.CredentialStore) proxy.Envelope
	Me(ctx context.Context, creds ports.CredentialStore) proxy.Envelope
	ChangePassword(ctx context.Context, creds ports.CredentialStore, in service.ChangePasswordInput) proxy.Envelope
}

// AuthHandlers provides HTTP handlers for the local /api/auth endpoints.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Cookies cookies.Options
	Dev     bool
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// badBody answers a body that could not be decoded. The front end treats this the same
// as an upstream failure.
func badBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dev bool, err error) {
	logger.WarnContext(r.Context(), "decode request body failed", "path", r.URL.Path, "error", err)
	WriteEnvelope(w, service.ErrorEnvelope(apperrors.Transport(err), dev))
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		badBody(w, r, h.logger(), h.Dev, err)
		return
	}
	WriteEnvelope(w, h.Svc.Login(r.Context(), credentialsFor(w, r, h.Cookies), in))
}

// Register handles POST /api/auth/register. The form is forwarded as received.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var form map[string]any
	if err := decodeJSON(r, &form); err != nil {
		badBody(w, r, h.logger(), h.Dev, err)
		return
	}
	WriteEnvelope(w, h.Svc.Register(r.Context(), credentialsFor(w, r, h.Cookies), form))
}

// refreshRequest is the optional body of POST /api/auth/refresh.
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh handles POST /api/auth/refresh. An empty body falls back to the refresh cookie.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, errEmptyBody) {
		badBody(w, r, h.logger(), h.Dev, err)
		return
	}
	WriteEnvelope(w, h.Svc.Refresh(r.Context(), credentialsFor(w, r, h.Cookies), in.Refresh))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	WriteEnvelope(w, h.Svc.Logout(r.Context(), credentialsFor(w, r, h.Cookies)))
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	WriteEnvelope(w, h.Svc.Me(r.Context(), credentialsFor(w, r, h.Cookies)))
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in service.ChangePasswordInput
	if err := decodeJSON(r, &in); err != nil {
		badBody(w, r, h.logger(), h.Dev, err)
		return
	}
	WriteEnvelope(w, h.Svc.ChangePassword(r.Context(), credentialsFor(w, r, h.Cookies), in))
}
