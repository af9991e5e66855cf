package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/gallery-ui/internal/adapters/backend"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	"github.com/target/gallery-ui/internal/mocks"
	authmocks "github.com/target/gallery-ui/internal/mocks/auth"
	"github.com/target/gallery-ui/internal/testutil"
	"go.uber.org/mock/gomock"
)

func TestGateway_AuthRequiredWithoutTokenMakesNoCalls(t *testing.T) {
	f := newGatewayFixture(t, false)
	creds := authmocks.NewMemoryCredentialStore("", "refresh-only")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPatch} {
		env := f.gateway.Forward(context.Background(), creds, proxy.Request{
			Method:       method,
			Path:         "/profiles/artist/",
			Body:         proxy.JSONBody{Value: map[string]any{"bio": "x"}},
			AuthRequired: true,
		})
		assert.False(t, env.OK)
		assert.Equal(t, http.StatusUnauthorized, env.Status)
		assert.Equal(t, "Not authenticated", env.Message)
	}

	assert.Zero(t, f.origin.TotalCalls())
	assert.Equal(t, 3, f.metrics.Forwards(OutcomeUnauthenticated))
	assert.Empty(t, creds.Writes())
}

func TestGateway_SuccessSpreadsPayload(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/profiles/buyer/", testutil.BearerHandler("acc", map[string]any{
		"id":   "b1",
		"ok":   false,
		"city": "Lyon",
	}))
	creds := authmocks.NewMemoryCredentialStore("acc", "")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         "/profiles/buyer/",
		AuthRequired: true,
	})

	require.True(t, env.OK, "ok follows the status class, not the payload")
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "Lyon", env.Payload["city"])
	assert.Equal(t, 1, f.metrics.Forwards(OutcomeOK))

	last, ok := f.origin.Last(http.MethodGet, "/profiles/buyer/")
	require.True(t, ok)
	assert.Equal(t, "Bearer acc", last.Authorization)
}

func TestGateway_BackendRejectionKeepsStatusAndDetail(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Respond(http.MethodPatch, "/profiles/artist/", http.StatusBadRequest, map[string]any{
		"detail": "Bio too long",
		"bio":    []string{"Ensure this field has no more than 500 characters."},
	})
	creds := authmocks.NewMemoryCredentialStore("acc", "")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodPatch,
		Path:         "/profiles/artist/",
		Body:         proxy.JSONBody{Value: map[string]any{"bio": "long"}},
		AuthRequired: true,
	})

	assert.False(t, env.OK)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "Bio too long", env.Message)
	assert.Contains(t, env.Payload, "bio")
	assert.Equal(t, 1, f.metrics.Forwards(OutcomeRejected))
}

func TestGateway_BackendMessageWinsOverDetail(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Respond(http.MethodGet, "/profiles/artists/", http.StatusServiceUnavailable, map[string]any{
		"detail":  "d",
		"message": "maintenance",
	})

	env := f.gateway.Forward(context.Background(), authmocks.NewMemoryCredentialStore("", ""), proxy.Request{
		Method: http.MethodGet,
		Path:   "/profiles/artists/",
	})

	assert.Equal(t, http.StatusServiceUnavailable, env.Status)
	assert.Empty(t, env.Message)
	assert.Equal(t, "maintenance", env.Payload["message"])
}

func TestGateway_RetryOnceAfterRefresh(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/auth/me/", testutil.BearerHandler("fresh", map[string]any{"id": "u1"}))
	f.origin.Respond(http.MethodPost, "/auth/token/refresh/", http.StatusOK, map[string]any{"access": "fresh"})
	creds := authmocks.NewMemoryCredentialStore("stale", "r1")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         "/auth/me/",
		AuthRequired: true,
	})

	require.True(t, env.OK)
	assert.Equal(t, "u1", env.Payload["id"])
	assert.Equal(t, 2, f.origin.Calls(http.MethodGet, "/auth/me/"))
	assert.Equal(t, 1, f.origin.Calls(http.MethodPost, "/auth/token/refresh/"))

	refreshReq, ok := f.origin.Last(http.MethodPost, "/auth/token/refresh/")
	require.True(t, ok)
	assert.Equal(t, "r1", refreshReq.JSONBody()["refresh"])

	retry, ok := f.origin.Last(http.MethodGet, "/auth/me/")
	require.True(t, ok)
	assert.Equal(t, "Bearer fresh", retry.Authorization)

	assert.Equal(t, []authmocks.Write{
		{Kind: domainauth.AccessToken, Value: "fresh", TTLSeconds: 3600},
	}, creds.Writes())
	refresh, _ := creds.Get(domainauth.RefreshToken)
	assert.Equal(t, "r1", refresh)
}

func TestGateway_RefreshFailureIsTerminal(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/auth/me/", testutil.BearerHandler("never", nil))
	f.origin.Respond(http.MethodPost, "/auth/token/refresh/", http.StatusUnauthorized, map[string]any{
		"detail": "Token is invalid or expired",
	})
	creds := authmocks.NewMemoryCredentialStore("stale", "r1")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         "/auth/me/",
		AuthRequired: true,
	})

	assert.False(t, env.OK)
	assert.Equal(t, http.StatusUnauthorized, env.Status)
	assert.Equal(t, 1, f.origin.Calls(http.MethodGet, "/auth/me/"))
	assert.Equal(t, 1, f.origin.Calls(http.MethodPost, "/auth/token/refresh/"))
	assert.Empty(t, creds.Writes(), "a failed refresh never touches cookies")
	assert.Equal(t, 1, f.metrics.Refreshes(RefreshRejected))
}

func TestGateway_SecondUnauthorizedAfterRetryIsTerminal(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/auth/me/", testutil.BearerHandler("never", nil))
	f.origin.Respond(http.MethodPost, "/auth/token/refresh/", http.StatusOK, map[string]any{"access": "fresh"})
	creds := authmocks.NewMemoryCredentialStore("stale", "r1")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         "/auth/me/",
		AuthRequired: true,
	})

	assert.False(t, env.OK)
	assert.Equal(t, http.StatusUnauthorized, env.Status)
	assert.Equal(t, 2, f.origin.Calls(http.MethodGet, "/auth/me/"))
	assert.Equal(t, 1, f.origin.Calls(http.MethodPost, "/auth/token/refresh/"))
}

func TestGateway_UnauthorizedWithoutRefreshToken(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/auth/me/", testutil.BearerHandler("never", nil))
	creds := authmocks.NewMemoryCredentialStore("stale", "")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         "/auth/me/",
		AuthRequired: true,
	})

	assert.Equal(t, http.StatusUnauthorized, env.Status)
	assert.Equal(t, "Given token not valid for any token type", env.Message)
	assert.Equal(t, 1, f.origin.TotalCalls())
}

func TestGateway_PublicCallCarriesNoToken(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Respond(http.MethodGet, "/profiles/artists/", http.StatusOK, []any{})
	creds := authmocks.NewMemoryCredentialStore("acc", "")

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method: http.MethodGet,
		Path:   "/profiles/artists/",
	})

	require.True(t, env.OK)
	assert.Equal(t, []any{}, env.Payload["data"])
	last, _ := f.origin.Last(http.MethodGet, "/profiles/artists/")
	assert.Empty(t, last.Authorization)
}

func TestGateway_TransportFailure(t *testing.T) {
	for _, tc := range []struct {
		name string
		dev  bool
	}{
		{"generic message", false},
		{"dev echoes cause", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			origin := testutil.NewOrigin(t)
			client, err := backend.NewClient(backend.Config{BaseURL: origin.BaseURL()})
			require.NoError(t, err)
			origin.Server.Close()

			metrics := authmocks.NewRecordingMetrics()
			g := NewGateway(GatewayOptions{Backend: client, Metrics: metrics, Dev: tc.dev})
			env := g.Forward(context.Background(), authmocks.NewMemoryCredentialStore("", ""), proxy.Request{
				Method: http.MethodGet,
				Path:   "/profiles/artists/",
			})

			assert.False(t, env.OK)
			assert.Equal(t, http.StatusInternalServerError, env.Status)
			if tc.dev {
				assert.Contains(t, env.Message, "Upstream request failed: ")
			} else {
				assert.Equal(t, "Upstream request failed", env.Message)
			}
			assert.Equal(t, 1, metrics.Forwards(OutcomeTransport))
		})
	}
}

func TestGateway_MalformedResponseIsTransportFailure(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Handle(http.MethodGet, "/profiles/artists/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	})

	env := f.gateway.Forward(context.Background(), authmocks.NewMemoryCredentialStore("", ""), proxy.Request{
		Method: http.MethodGet,
		Path:   "/profiles/artists/",
	})

	assert.Equal(t, http.StatusInternalServerError, env.Status)
	assert.Equal(t, "Upstream request failed", env.Message)
}

func TestGateway_PublicCallNeverReadsCredentials(t *testing.T) {
	f := newGatewayFixture(t, false)
	f.origin.Respond(http.MethodGet, "/profiles/artists/", http.StatusOK, []any{})

	ctrl := gomock.NewController(t)
	creds := mocks.NewMockCredentialStore(ctrl) // any call fails the test

	env := f.gateway.Forward(context.Background(), creds, proxy.Request{
		Method: http.MethodGet,
		Path:   "/profiles/artists/",
	})

	assert.True(t, env.OK)
}
