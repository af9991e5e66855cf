package ports

// Package ports defines interfaces (hexagonal ports) for the session and proxy layer.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"net/url"
	"time"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	"golang.org/x/oauth2"
)

// CredentialStore owns the access and refresh tokens for one browser.
// It is the only component allowed to persist tokens.
type CredentialStore interface {
	// Set writes value with the given time-to-live. ttlSeconds <= 0 expires it immediately.
	Set(kind domainauth.TokenKind, value string, ttlSeconds int)
	// Get returns the current value; empty values read as absent.
	Get(kind domainauth.TokenKind) (string, bool)
	// Clear is Set(kind, "", 0).
	Clear(kind domainauth.TokenKind)
}

// BackendCall is one outbound HTTP call to the remote origin.
type BackendCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   proxy.Body
	// Token, when non-nil, is attached as a bearer credential.
	Token *oauth2.Token
}

// BackendResponse is a decoded backend answer. Payload is never nil.
type BackendResponse struct {
	Status  int
	Payload map[string]any
}

// Backend performs raw calls against the remote origin.
// A non-nil error always means a transport failure; HTTP error statuses are not errors.
type Backend interface {
	Do(ctx context.Context, call BackendCall) (BackendResponse, error)
}

// TokenRefresher exchanges a refresh token for a new access token and re-arms the store.
type TokenRefresher interface {
	Refresh(ctx context.Context, creds CredentialStore, refreshToken string) (*RefreshResult, error)
}

// RefreshResult is the outcome of a successful refresh.
type RefreshResult struct {
	Token *oauth2.Token
	// Raw is the backend payload as returned.
	Raw map[string]any
}

// PrincipalResolver answers who the current principal is.
type PrincipalResolver interface {
	Resolve(ctx context.Context, creds CredentialStore) (domainauth.Principal, bool)
}

// DemoIdentityStore persists the browser-local demo identity record.
type DemoIdentityStore interface {
	Get(ctx context.Context, browserID string) (domainauth.DemoIdentity, bool, error)
	// SaveIfAbsent writes rec only when no record exists and reports whether it wrote.
	SaveIfAbsent(ctx context.Context, browserID string, rec domainauth.DemoIdentity) (bool, error)
}

// ProxyMetrics records gateway activity.
type ProxyMetrics interface {
	ObserveForward(outcome string)
	ObserveBackend(method string, elapsed time.Duration)
	ObserveRefresh(result string)
}
