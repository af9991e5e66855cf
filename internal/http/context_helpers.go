package httpx

import (
	"context"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
)

// principalKey is an unexported context key type to avoid collisions across packages.
type principalKey struct{}

// SetPrincipalInContext returns a child context that carries the admitted principal.
func SetPrincipalInContext(ctx context.Context, p domainauth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipalFromContext returns the principal admitted by RequireSession.
func GetPrincipalFromContext(ctx context.Context) (domainauth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domainauth.Principal)
	return p, ok
}

// IsGuestUser reports whether the request has no admitted principal or a guest one.
func IsGuestUser(ctx context.Context) bool {
	p, ok := GetPrincipalFromContext(ctx)
	return !ok || p.IsGuest()
}
