package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/target/gallery-ui/internal/adapters/cookies"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	"github.com/target/gallery-ui/internal/ports"
	"github.com/target/gallery-ui/internal/service"
)

// ProfileServiceInterface defines the profile operations used by the handlers.
type ProfileServiceInterface interface {
	Get(ctx context.Context, creds ports.CredentialStore, kind service.ProfileKind) proxy.Envelope
	Update(ctx context.Context, creds ports.CredentialStore, kind service.ProfileKind, body proxy.Body) proxy.Envelope
	ListArtists(ctx context.Context, creds ports.CredentialStore, query url.Values) proxy.Envelope
}

// ProfileHandlers serves /api/profiles.
type ProfileHandlers struct {
	Svc     ProfileServiceInterface
	Cookies cookies.Options
	Dev     bool
	Logger  *slog.Logger
}

func (h *ProfileHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func profileKind(w http.ResponseWriter, r *http.Request) (service.ProfileKind, bool) {
	kind := service.ProfileKind(r.PathValue("kind"))
	if !kind.Valid() {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, Message: "Unknown profile type"})
		return "", false
	}
	return kind, true
}

// Get handles GET /api/profiles/{kind}.
func (h *ProfileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := profileKind(w, r)
	if !ok {
		return
	}
	WriteEnvelope(w, h.Svc.Get(r.Context(), credentialsFor(w, r, h.Cookies), kind))
}

// Update handles PATCH /api/profiles/{kind} with a JSON or multipart body.
func (h *ProfileHandlers) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := profileKind(w, r)
	if !ok {
		return
	}
	creds := credentialsFor(w, r, h.Cookies)
	// Without an access token the gateway answers 401 before any body is sent.
	if _, ok := creds.Get(domainauth.AccessToken); !ok {
		WriteEnvelope(w, h.Svc.Update(r.Context(), creds, kind, nil))
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		badBody(w, r, h.logger(), h.Dev, err)
		return
	}
	WriteEnvelope(w, h.Svc.Update(r.Context(), creds, kind, body))
}

// ListArtists handles GET /api/profiles/artists.
func (h *ProfileHandlers) ListArtists(w http.ResponseWriter, r *http.Request) {
	WriteEnvelope(w, h.Svc.ListArtists(r.Context(), credentialsFor(w, r, h.Cookies), r.URL.Query()))
}
