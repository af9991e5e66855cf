package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
	"github.com/target/gallery-ui/internal/mocks"
	authmocks "github.com/target/gallery-ui/internal/mocks/auth"
	"github.com/target/gallery-ui/internal/ports"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func refreshCall(token string) ports.BackendCall {
	return ports.BackendCall{
		Method: http.MethodPost,
		Path:   "/auth/token/refresh/",
		Body:   proxy.JSONBody{Value: map[string]string{"refresh": token}},
	}
}

func TestTokenRefresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), refreshCall("r1")).Return(ports.BackendResponse{
		Status:  http.StatusOK,
		Payload: map[string]any{"access": "a2", "expires_in": "3600"},
	}, nil)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	metrics := authmocks.NewRecordingMetrics()
	c := NewTokenRefreshCoordinator(TokenRefreshOptions{
		Backend: be,
		Metrics: metrics,
		Now:     func() time.Time { return now },
	})
	creds := authmocks.NewMemoryCredentialStore("", "r1")

	res, err := c.Refresh(context.Background(), creds, "r1")
	require.NoError(t, err)
	assert.Equal(t, "a2", res.Token.AccessToken)
	assert.Equal(t, "r1", res.Token.RefreshToken)
	assert.Equal(t, now.Add(time.Hour), res.Token.Expiry)
	assert.Equal(t, "3600", res.Raw["expires_in"])

	assert.Equal(t, []authmocks.Write{
		{Kind: domainauth.AccessToken, Value: "a2", TTLSeconds: DefaultAccessTTL},
	}, creds.Writes())
	assert.Equal(t, 1, metrics.Refreshes(RefreshRefreshed))
}

func TestTokenRefresh_EmptyTokenIsValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)

	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be})
	_, err := c.Refresh(context.Background(), authmocks.NewMemoryCredentialStore("", ""), "")

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "refresh", apperrors.GetField(err))
}

func TestTokenRefresh_RejectedLeavesCookiesAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), gomock.Any()).Return(ports.BackendResponse{
		Status:  http.StatusUnauthorized,
		Payload: map[string]any{"detail": "Token is invalid or expired", "code": "token_not_valid"},
	}, nil)

	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be})
	creds := authmocks.NewMemoryCredentialStore("a1", "r1")

	_, err := c.Refresh(context.Background(), creds, "r1")
	require.Error(t, err)
	assert.True(t, apperrors.IsBackendRejected(err))

	var rejected *RefreshRejectedError
	require.ErrorAs(t, err, &rejected)
	env := rejected.Envelope()
	assert.Equal(t, http.StatusUnauthorized, env.Status)
	assert.Equal(t, "Token is invalid or expired", env.Message)
	assert.Equal(t, "token_not_valid", env.Payload["code"])

	assert.Empty(t, creds.Writes())
}

func TestTokenRefresh_MissingAccessIsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), gomock.Any()).Return(ports.BackendResponse{
		Status:  http.StatusOK,
		Payload: map[string]any{"refresh": "r1"},
	}, nil)

	metrics := authmocks.NewRecordingMetrics()
	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be, Metrics: metrics})
	creds := authmocks.NewMemoryCredentialStore("", "r1")

	_, err := c.Refresh(context.Background(), creds, "r1")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.Empty(t, creds.Writes())
	assert.Equal(t, 1, metrics.Refreshes(RefreshError))
}

func TestTokenRefresh_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), gomock.Any()).Return(ports.BackendResponse{}, errors.New("connection refused"))

	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be})
	_, err := c.Refresh(context.Background(), authmocks.NewMemoryCredentialStore("", "r1"), "r1")

	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	env := ErrorEnvelope(err, false)
	assert.Equal(t, http.StatusInternalServerError, env.Status)
	assert.Equal(t, "Upstream request failed", env.Message)
	assert.Equal(t, "Upstream request failed: connection refused", ErrorEnvelope(err, true).Message)
}

func TestTokenRefresh_ConcurrentCallersShareOneExchange(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(context.Context, ports.BackendCall) (ports.BackendResponse, error) {
			close(entered)
			<-release
			return ports.BackendResponse{Status: http.StatusOK, Payload: map[string]any{"access": "shared"}}, nil
		},
	)

	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be})
	first := authmocks.NewMemoryCredentialStore("", "r1")
	second := authmocks.NewMemoryCredentialStore("", "r1")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = c.Refresh(context.Background(), first, "r1")
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = c.Refresh(context.Background(), second, "r1")
	}()
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	for _, creds := range []*authmocks.MemoryCredentialStore{first, second} {
		v, ok := creds.Get(domainauth.AccessToken)
		require.True(t, ok)
		assert.Equal(t, "shared", v)
	}
}

func TestTokenRefresh_CancelledLeaderDoesNotFailFollowers(t *testing.T) {
	defer goleak.VerifyNone(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	ctrl := gomock.NewController(t)
	be := mocks.NewMockBackend(ctrl)
	be.EXPECT().Do(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(ctx context.Context, _ ports.BackendCall) (ports.BackendResponse, error) {
			close(entered)
			<-release
			if err := ctx.Err(); err != nil {
				return ports.BackendResponse{}, err
			}
			return ports.BackendResponse{Status: http.StatusOK, Payload: map[string]any{"access": "shared"}}, nil
		},
	)

	c := NewTokenRefreshCoordinator(TokenRefreshOptions{Backend: be})
	leader := authmocks.NewMemoryCredentialStore("", "r1")
	follower := authmocks.NewMemoryCredentialStore("", "r1")

	leaderCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = c.Refresh(leaderCtx, leader, "r1")
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = c.Refresh(context.Background(), follower, "r1")
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Error(t, errs[0])
	assert.True(t, errors.Is(errs[0], context.Canceled))
	_, ok := leader.Get(domainauth.AccessToken)
	assert.False(t, ok)

	require.NoError(t, errs[1])
	v, ok := follower.Get(domainauth.AccessToken)
	require.True(t, ok)
	assert.Equal(t, "shared", v)
}
