package service

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
	obserrors "github.com/target/gallery-ui/internal/observability/errors"
	"github.com/target/gallery-ui/internal/ports"
	"golang.org/x/oauth2"
)

// Forward outcomes reported to ports.ProxyMetrics.
const (
	OutcomeOK              = "ok"
	OutcomeRejected        = "rejected"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeTransport       = "transport"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgUpstreamFailed   = "Upstream request failed"
)

// Forwarder sends one request to the backend and normalizes the answer.
type Forwarder interface {
	Forward(ctx context.Context, creds ports.CredentialStore, req proxy.Request) proxy.Envelope
}

// GatewayOptions groups dependencies for Gateway.
type GatewayOptions struct {
	Backend   ports.Backend
	Refresher ports.TokenRefresher // optional; nil disables refresh-on-401
	Metrics   ports.ProxyMetrics   // optional
	Logger    *slog.Logger         // optional
	// Dev appends transport failure causes to the message returned to the browser.
	Dev bool
}

// Gateway forwards browser requests to the backend, attaching the access token from the
// credential store when the call requires it. Forward never returns an error: every failure
// resolves to an ok:false envelope.
type Gateway struct {
	backend   ports.Backend
	refresher ports.TokenRefresher
	metrics   ports.ProxyMetrics
	logger    *slog.Logger
	dev       bool
}

// NewGateway constructs a Gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		backend:   opts.Backend,
		refresher: opts.Refresher,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "gateway"),
		dev:       opts.Dev,
	}
}

// Forward performs req. When req.AuthRequired is set and no access token is stored, it answers
// 401 without any network call. A 401 from the backend triggers at most one refresh followed by
// at most one retry that reads the new token back from creds.
func (g *Gateway) Forward(ctx context.Context, creds ports.CredentialStore, req proxy.Request) proxy.Envelope {
	var token *oauth2.Token
	if req.AuthRequired {
		token = bearer(creds)
		if token == nil {
			g.observe(OutcomeUnauthenticated)
			return proxy.Failure(http.StatusUnauthorized, msgNotAuthenticated)
		}
	}

	resp, err := g.backend.Do(ctx, g.call(req, token))
	if err != nil {
		return g.transportFailure(req, err)
	}

	if resp.Status == http.StatusUnauthorized && req.AuthRequired && g.refreshOnce(ctx, creds) {
		token = bearer(creds)
		if token != nil {
			resp, err = g.backend.Do(ctx, g.call(req, token))
			if err != nil {
				return g.transportFailure(req, err)
			}
		}
	}

	return g.normalize(resp)
}

func (g *Gateway) call(req proxy.Request, token *oauth2.Token) ports.BackendCall {
	return ports.BackendCall{
		Method: req.Method,
		Path:   req.Path,
		Query:  req.Query,
		Body:   req.Body,
		Token:  token,
	}
}

// refreshOnce exchanges the stored refresh token. The coordinator writes the new access token
// to creds before returning, so the retry observes it.
func (g *Gateway) refreshOnce(ctx context.Context, creds ports.CredentialStore) bool {
	if g.refresher == nil {
		return false
	}
	refreshToken, ok := creds.Get(domainauth.RefreshToken)
	if !ok {
		return false
	}
	if _, err := g.refresher.Refresh(ctx, creds, refreshToken); err != nil {
		if apperrors.IsBackendRejected(err) {
			g.logger.DebugContext(ctx, "refresh token rejected after 401", "error", err)
		} else {
			g.logger.WarnContext(ctx, "refresh after 401 failed", "error", err)
		}
		return false
	}
	return true
}

func (g *Gateway) normalize(resp ports.BackendResponse) proxy.Envelope {
	env := proxy.FromStatus(resp.Status, resp.Payload)
	switch {
	case env.OK:
		g.observe(OutcomeOK)
	case resp.Status == http.StatusUnauthorized:
		g.observe(OutcomeUnauthenticated)
	default:
		g.observe(OutcomeRejected)
	}
	if !env.OK {
		if _, hasMessage := env.String("message"); !hasMessage {
			if detail, ok := env.String("detail"); ok {
				env.Message = detail
			}
		}
	}
	return env
}

func (g *Gateway) transportFailure(req proxy.Request, err error) proxy.Envelope {
	g.observe(OutcomeTransport)
	g.logger.Warn("backend call failed",
		"method", req.Method,
		"path", req.Path,
		"error_class", obserrors.Classify(err),
		"error", err,
	)
	msg := msgUpstreamFailed
	if g.dev {
		msg += ": " + err.Error()
	}
	return proxy.Failure(http.StatusInternalServerError, msg)
}

func (g *Gateway) observe(outcome string) {
	if g.metrics != nil {
		g.metrics.ObserveForward(outcome)
	}
}

func bearer(creds ports.CredentialStore) *oauth2.Token {
	access, ok := creds.Get(domainauth.AccessToken)
	if !ok {
		return nil
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
}
