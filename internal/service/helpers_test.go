package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/target/gallery-ui/internal/adapters/backend"
	authmocks "github.com/target/gallery-ui/internal/mocks/auth"
	"github.com/target/gallery-ui/internal/testutil"
)

type gatewayFixture struct {
	origin    *testutil.Origin
	client    *backend.Client
	metrics   *authmocks.RecordingMetrics
	refresher *TokenRefreshCoordinator
	gateway   *Gateway
}

func newGatewayFixture(t *testing.T, dev bool) *gatewayFixture {
	t.Helper()
	origin := testutil.NewOrigin(t)
	metrics := authmocks.NewRecordingMetrics()
	client, err := backend.NewClient(backend.Config{BaseURL: origin.BaseURL(), Metrics: metrics})
	require.NoError(t, err)
	refresher := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: client, Metrics: metrics})
	return &gatewayFixture{
		origin:    origin,
		client:    client,
		metrics:   metrics,
		refresher: refresher,
		gateway: NewGateway(GatewayOptions{
			Backend:   client,
			Refresher: refresher,
			Metrics:   metrics,
			Dev:       dev,
		}),
	}
}
