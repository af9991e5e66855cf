package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
	"github.com/target/gallery-ui/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// DefaultAccessTTL is the access cookie lifetime written after a refresh, in seconds.
const DefaultAccessTTL = 3600

const refreshPath = "/auth/token/refresh/"

// Refresh results reported to ports.ProxyMetrics.
const (
	RefreshRefreshed = "refreshed"
	RefreshRejected  = "rejected"
	RefreshError     = "error"
)

// RefreshState is a step of one token refresh.
type RefreshState string

const (
	StateNeedRefresh RefreshState = "need_refresh"
	StateRefreshing  RefreshState = "refreshing"
	StateRefreshed   RefreshState = "refreshed"
	StateFailed      RefreshState = "failed"
)

var errMissingAccess = errors.New("refresh response has no access token")

// RefreshRejectedError carries the backend's answer when it refuses a refresh token.
type RefreshRejectedError struct {
	Status  int
	Payload map[string]any
}

func (e *RefreshRejectedError) Error() string {
	return fmt.Sprintf("token refresh rejected with status %d", e.Status)
}

// Unwrap exposes the BackendRejected classification.
func (e *RefreshRejectedError) Unwrap() error {
	return apperrors.BackendRejected(e.Status, "token refresh rejected")
}

// Envelope renders the rejection the way the gateway would.
func (e *RefreshRejectedError) Envelope() proxy.Envelope {
	env := proxy.FromStatus(e.Status, e.Payload)
	if _, ok := env.String("message"); !ok {
		if detail, ok := env.String("detail"); ok {
			env.Message = detail
		}
	}
	return env
}

// TokenRefreshOptions groups dependencies for TokenRefreshCoordinator.
type TokenRefreshOptions struct {
	Backend ports.Backend
	Metrics ports.ProxyMetrics // optional
	Logger  *slog.Logger       // optional
	// AccessTTL is the access cookie lifetime in seconds; zero means DefaultAccessTTL.
	AccessTTL int
	// Now is overridable for tests.
	Now func() time.Time
}

// TokenRefreshCoordinator exchanges a refresh token for a new access token.
// It writes only the access token; it never clears cookies and never rotates the refresh token.
// Concurrent refreshes of the same token share one backend call.
type TokenRefreshCoordinator struct {
	backend   ports.Backend
	metrics   ports.ProxyMetrics
	logger    *slog.Logger
	accessTTL int
	now       func() time.Time
	group     singleflight.Group
}

// NewTokenRefreshCoordinator constructs a TokenRefreshCoordinator.
func NewTokenRefreshCoordinator(opts TokenRefreshOptions) *TokenRefreshCoordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.AccessTTL
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TokenRefreshCoordinator{
		backend:   opts.Backend,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "token_refresh"),
		accessTTL: ttl,
		now:       now,
	}
}

type refreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshOutcome struct {
	access string
	raw    map[string]any
}

// Refresh runs NEED_REFRESH -> REFRESHING -> REFRESHED|FAILED. On success the new access
// token is in creds before Refresh returns.
func (c *TokenRefreshCoordinator) Refresh(
	ctx context.Context,
	creds ports.CredentialStore,
	refreshToken string,
) (*ports.RefreshResult, error) {
	if err := validateInput(refreshInput{Refresh: refreshToken}); err != nil {
		return nil, err
	}
	c.logState(ctx, StateNeedRefresh, nil)

	// The shared exchange outlives any single caller; each caller waits on its own ctx.
	ch := c.group.DoChan(refreshToken, func() (any, error) {
		c.logState(ctx, StateRefreshing, nil)
		return c.exchange(context.WithoutCancel(ctx), refreshToken)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		err := apperrors.Transport(ctx.Err())
		c.logState(ctx, StateFailed, err)
		return nil, err
	}
	if res.Err != nil {
		c.logState(ctx, StateFailed, res.Err)
		return nil, res.Err
	}
	shared := res.Shared
	out, ok := res.Val.(refreshOutcome)
	if !ok {
		return nil, apperrors.Internal("unexpected refresh result")
	}

	creds.Set(domainauth.AccessToken, out.access, c.accessTTL)
	c.logState(ctx, StateRefreshed, nil, "shared", shared)

	return &ports.RefreshResult{
		Token: &oauth2.Token{
			AccessToken:  out.access,
			TokenType:    "Bearer",
			RefreshToken: refreshToken,
			Expiry:       c.now().Add(time.Duration(c.accessTTL) * time.Second),
		},
		Raw: out.raw,
	}, nil
}

func (c *TokenRefreshCoordinator) exchange(ctx context.Context, refreshToken string) (refreshOutcome, error) {
	resp, err := c.backend.Do(ctx, ports.BackendCall{
		Method: http.MethodPost,
		Path:   refreshPath,
		Body:   proxy.JSONBody{Value: map[string]string{"refresh": refreshToken}},
	})
	if err != nil {
		c.observe(RefreshError)
		return refreshOutcome{}, apperrors.Transport(err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		c.observe(RefreshRejected)
		return refreshOutcome{}, &RefreshRejectedError{Status: resp.Status, Payload: resp.Payload}
	}
	access, _ := resp.Payload["access"].(string)
	if access == "" {
		c.observe(RefreshError)
		return refreshOutcome{}, apperrors.Transport(errMissingAccess)
	}
	c.observe(RefreshRefreshed)
	return refreshOutcome{access: access, raw: resp.Payload}, nil
}

func (c *TokenRefreshCoordinator) observe(result string) {
	if c.metrics != nil {
		c.metrics.ObserveRefresh(result)
	}
}

func (c *TokenRefreshCoordinator) logState(ctx context.Context, state RefreshState, err error, extra ...any) {
	attrs := append([]any{"state", state}, extra...)
	if err != nil {
		c.logger.WarnContext(ctx, "token refresh", append(attrs, "error", err)...)
		return
	}
	c.logger.DebugContext(ctx, "token refresh", attrs...)
}
