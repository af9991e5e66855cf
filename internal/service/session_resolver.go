package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/domain/proxy"
	"github.com/target/gallery-ui/internal/ports"
)

const mePath = "/auth/me/"

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// IdentityMapping holds the JMESPath expressions that pull principal fields out of
// the identity endpoint payload.
type IdentityMapping struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
}

// DefaultIdentityMapping matches the backend's flat /auth/me/ payload.
func DefaultIdentityMapping() IdentityMapping {
	return IdentityMapping{
		ID:          "id",
		DisplayName: "display_name || username || email",
		Email:       "email",
		Role:        "role",
	}
}

func (m IdentityMapping) withDefaults() IdentityMapping {
	d := DefaultIdentityMapping()
	if strings.TrimSpace(m.ID) == "" {
		m.ID = d.ID
	}
	if strings.TrimSpace(m.DisplayName) == "" {
		m.DisplayName = d.DisplayName
	}
	if strings.TrimSpace(m.Email) == "" {
		m.Email = d.Email
	}
	if strings.TrimSpace(m.Role) == "" {
		m.Role = d.Role
	}
	return m
}

// SessionResolverOptions groups dependencies for SessionResolver.
type SessionResolverOptions struct {
	Gateway   Forwarder
	Mapping   IdentityMapping
	Evaluator JMESPathEvaluator // optional
	Logger    *slog.Logger      // optional
}

// SessionResolver answers who the current principal is. Every call asks the backend;
// nothing is cached.
type SessionResolver struct {
	gateway Forwarder
	mapping IdentityMapping
	jems    JMESPathEvaluator
	logger  *slog.Logger
}

// NewSessionResolver constructs a SessionResolver, rejecting invalid mapping expressions.
func NewSessionResolver(opts SessionResolverOptions) (*SessionResolver, error) {
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	mapping := opts.Mapping.withDefaults()
	for name, expr := range map[string]string{
		"id":           mapping.ID,
		"display_name": mapping.DisplayName,
		"email":        mapping.Email,
		"role":         mapping.Role,
	} {
		if err := jems.Validate(expr); err != nil {
			return nil, fmt.Errorf("invalid %s expression %q: %w", name, expr, err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionResolver{
		gateway: opts.Gateway,
		mapping: mapping,
		jems:    jems,
		logger:  logger.With("component", "session_resolver"),
	}, nil
}

// Resolve returns the principal, or false for Unauthenticated. With no access token it
// answers false without a network call. Every non-2xx answer collapses to false.
func (r *SessionResolver) Resolve(ctx context.Context, creds ports.CredentialStore) (domainauth.Principal, bool) {
	if _, ok := creds.Get(domainauth.AccessToken); !ok {
		return domainauth.Principal{}, false
	}

	env := r.gateway.Forward(ctx, creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         mePath,
		AuthRequired: true,
	})
	if !env.OK {
		r.logger.DebugContext(ctx, "identity lookup not ok", "status", env.Status)
		return domainauth.Principal{}, false
	}

	p := domainauth.Principal{
		Identifier:   r.field(ctx, r.mapping.ID, env.Payload),
		DisplayName:  r.field(ctx, r.mapping.DisplayName, env.Payload),
		EmailAddress: r.field(ctx, r.mapping.Email, env.Payload),
		Role:         domainauth.ParseRole(r.field(ctx, r.mapping.Role, env.Payload)),
	}
	if p.Identifier == "" {
		r.logger.WarnContext(ctx, "identity payload has no identifier")
		return domainauth.Principal{}, false
	}
	return p, true
}

func (r *SessionResolver) field(ctx context.Context, expr string, data map[string]any) string {
	v, err := r.jems.Evaluate(expr, data)
	if err != nil {
		r.logger.DebugContext(ctx, "identity mapping failed", "expr", expr, "error", err)
		return ""
	}
	return scalarString(v)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
