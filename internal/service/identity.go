package service

import (
	"context"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/ports"
)

// IdentityService applies the precedence between the two identity sources:
// any stored token means the session decides, and the demo record is only
// consulted when there is no session at all.
type IdentityService struct {
	resolver  ports.PrincipalResolver
	refresher ports.TokenRefresher
	demo      *DemoIdentityFallback
}

// NewIdentityService constructs an IdentityService. refresher may be nil, in which case a
// session holding only a refresh token resolves to Anonymous.
func NewIdentityService(
	resolver ports.PrincipalResolver,
	refresher ports.TokenRefresher,
	demo *DemoIdentityFallback,
) *IdentityService {
	return &IdentityService{resolver: resolver, refresher: refresher, demo: demo}
}

// HasSession reports whether creds hold either token. An expired access cookie with a
// live refresh cookie is still a session.
func HasSession(creds ports.CredentialStore) bool {
	if _, ok := creds.Get(domainauth.AccessToken); ok {
		return true
	}
	_, ok := creds.Get(domainauth.RefreshToken)
	return ok
}

// Current returns the identity source for this browser.
func (s *IdentityService) Current(
	ctx context.Context,
	creds ports.CredentialStore,
	browserID string,
) (domainauth.IdentitySource, error) {
	if HasSession(creds) {
		return s.sessionIdentity(ctx, creds), nil
	}

	if s.demo == nil || browserID == "" {
		return domainauth.Anonymous{}, nil
	}
	rec, err := s.demo.Ensure(ctx, browserID)
	if err != nil {
		return nil, err
	}
	return domainauth.DemoIdentitySource{Identity: rec}, nil
}

// sessionIdentity re-arms a missing access token from the refresh token before resolving.
// It never falls back to the demo record.
func (s *IdentityService) sessionIdentity(ctx context.Context, creds ports.CredentialStore) domainauth.IdentitySource {
	if _, ok := creds.Get(domainauth.AccessToken); !ok {
		refreshToken, _ := creds.Get(domainauth.RefreshToken)
		if s.refresher == nil {
			return domainauth.Anonymous{}
		}
		if _, err := s.refresher.Refresh(ctx, creds, refreshToken); err != nil {
			return domainauth.Anonymous{}
		}
	}
	p, ok := s.resolver.Resolve(ctx, creds)
	if !ok {
		return domainauth.Anonymous{}
	}
	return domainauth.SessionIdentity{Principal: p}
}
