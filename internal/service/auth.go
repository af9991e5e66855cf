package service

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
	"github.com/target/gallery-ui/internal/ports"
)

// LoginMode selects how POST /api/auth/login is answered.
type LoginMode string

const (
	// LoginStub answers from a fixed demo credential pair without contacting the backend.
	LoginStub LoginMode = "stub"
	// LoginBackend forwards to the backend and stores the returned tokens.
	LoginBackend LoginMode = "backend"
)

// DefaultRefreshTTL is the refresh cookie lifetime in seconds.
const DefaultRefreshTTL = 7 * 24 * 3600

// Stub login credentials and token.
const (
	StubEmail    = "test@example.com"
	StubPassword = "password"
	StubToken    = "demo-token"
)

const (
	loginPath          = "/auth/login/"
	registerPath       = "/auth/register/"
	changePasswordPath = "/auth/change-password/"
)

// tokenFields are stripped from envelopes before they reach the browser.
var tokenFields = []string{"access", "refresh", "tokens"}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway    Forwarder
	Refresher  ports.TokenRefresher
	LoginMode  LoginMode
	AccessTTL  int
	RefreshTTL int
	Dev        bool
	Logger     *slog.Logger
}

// AuthService orchestrates the local /api/auth endpoints on top of the gateway and the
// refresh coordinator. Only this service and the coordinator write tokens.
type AuthService struct {
	gateway    Forwarder
	refresher  ports.TokenRefresher
	mode       LoginMode
	accessTTL  int
	refreshTTL int
	dev        bool
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	mode := opts.LoginMode
	if mode != LoginBackend {
		mode = LoginStub
	}
	accessTTL := opts.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		gateway:    opts.Gateway,
		refresher:  opts.Refresher,
		mode:       mode,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		dev:        opts.Dev,
		logger:     logger.With("component", "auth"),
	}
}

// LoginInput is the browser's login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login answers the login form. In stub mode only the demo pair succeeds and no cookie is set.
func (s *AuthService) Login(ctx context.Context, creds ports.CredentialStore, in LoginInput) proxy.Envelope {
	if s.mode == LoginStub {
		if in.Email == StubEmail && in.Password == StubPassword {
			return proxy.Success(http.StatusOK, map[string]any{
				"token": StubToken,
				"user":  map[string]any{"email": in.Email},
			})
		}
		return proxy.Failure(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := validateInput(in); err != nil {
		return ErrorEnvelope(err, s.dev)
	}
	env := s.gateway.Forward(ctx, creds, proxy.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   proxy.JSONBody{Value: in},
	})
	return s.storeTokens(ctx, creds, env)
}

// RegisterInput holds the fields checked locally; the full form is forwarded untouched.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register forwards the registration form and stores any tokens the backend returns.
func (s *AuthService) Register(ctx context.Context, creds ports.CredentialStore, form map[string]any) proxy.Envelope {
	in := RegisterInput{Email: stringField(form, "email"), Password: stringField(form, "password")}
	if err := validateInput(in); err != nil {
		return ErrorEnvelope(err, s.dev)
	}
	env := s.gateway.Forward(ctx, creds, proxy.Request{
		Method: http.MethodPost,
		Path:   registerPath,
		Body:   proxy.JSONBody{Value: form},
	})
	return s.storeTokens(ctx, creds, env)
}

// Refresh exchanges the given refresh token, or the stored one when empty.
func (s *AuthService) Refresh(ctx context.Context, creds ports.CredentialStore, refreshToken string) proxy.Envelope {
	if refreshToken == "" {
		refreshToken, _ = creds.Get(domainauth.RefreshToken)
	}
	res, err := s.refresher.Refresh(ctx, creds, refreshToken)
	if err != nil {
		return ErrorEnvelope(err, s.dev)
	}
	return proxy.Success(http.StatusOK, res.Raw).Without(tokenFields...)
}

// Logout expires both cookies.
func (s *AuthService) Logout(_ context.Context, creds ports.CredentialStore) proxy.Envelope {
	creds.Clear(domainauth.AccessToken)
	creds.Clear(domainauth.RefreshToken)
	return proxy.Success(http.StatusOK, nil)
}

// Me returns the backend's view of the current user.
func (s *AuthService) Me(ctx context.Context, creds ports.CredentialStore) proxy.Envelope {
	return s.gateway.Forward(ctx, creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         mePath,
		AuthRequired: true,
	})
}

// ChangePasswordInput is the browser's change-password form.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,nefield=OldPassword"`
}

// ChangePassword forwards a validated change-password form.
func (s *AuthService) ChangePassword(
	ctx context.Context,
	creds ports.CredentialStore,
	in ChangePasswordInput,
) proxy.Envelope {
	if _, ok := creds.Get(domainauth.AccessToken); !ok {
		return ErrorEnvelope(apperrors.Unauthenticated("change password without session"), s.dev)
	}
	if err := validateInput(in); err != nil {
		return ErrorEnvelope(err, s.dev)
	}
	return s.gateway.Forward(ctx, creds, proxy.Request{
		Method:       http.MethodPost,
		Path:         changePasswordPath,
		Body:         proxy.JSONBody{Value: in},
		AuthRequired: true,
	})
}

// storeTokens writes tokens from a successful envelope and strips them from the answer.
func (s *AuthService) storeTokens(ctx context.Context, creds ports.CredentialStore, env proxy.Envelope) proxy.Envelope {
	if !env.OK {
		return env
	}
	access, refresh := extractTokens(env.Payload)
	if access != "" {
		creds.Set(domainauth.AccessToken, access, s.accessTTL)
	}
	if refresh != "" {
		creds.Set(domainauth.RefreshToken, refresh, s.refreshTTL)
	}
	if access != "" || refresh != "" {
		s.logger.DebugContext(ctx, "session tokens stored", "access", access != "", "refresh", refresh != "")
	}
	return env.Without(tokenFields...)
}

// extractTokens reads access/refresh at the top level or under "tokens".
func extractTokens(payload map[string]any) (string, string) {
	access, refresh := stringField(payload, "access"), stringField(payload, "refresh")
	if nested, ok := payload["tokens"].(map[string]any); ok {
		if access == "" {
			access = stringField(nested, "access")
		}
		if refresh == "" {
			refresh = stringField(nested, "refresh")
		}
	}
	return access, refresh
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
