package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/target/gallery-ui/internal/domain/proxy"
	"github.com/target/gallery-ui/internal/ports"
)

// ProfileKind names an editable profile on the backend.
type ProfileKind string

const (
	ProfileArtist ProfileKind = "artist"
	ProfileBuyer  ProfileKind = "buyer"
)

// Valid reports whether k is a known profile kind.
func (k ProfileKind) Valid() bool { return k == ProfileArtist || k == ProfileBuyer }

func (k ProfileKind) path() string { return fmt.Sprintf("/profiles/%s/", k) }

const artistsPath = "/profiles/artists/"

// artistFilters are the only query keys forwarded to the public artist listing.
var artistFilters = []string{"q", "country", "specialization"}

// ProfileService forwards profile reads and edits.
type ProfileService struct {
	gateway Forwarder
}

// NewProfileService constructs a ProfileService.
func NewProfileService(gateway Forwarder) *ProfileService {
	return &ProfileService{gateway: gateway}
}

// Get reads the current user's profile of the given kind.
func (s *ProfileService) Get(ctx context.Context, creds ports.CredentialStore, kind ProfileKind) proxy.Envelope {
	return s.gateway.Forward(ctx, creds, proxy.Request{
		Method:       http.MethodGet,
		Path:         kind.path(),
		AuthRequired: true,
	})
}

// Update patches the profile with a JSON or multipart body.
func (s *ProfileService) Update(
	ctx context.Context,
	creds ports.CredentialStore,
	kind ProfileKind,
	body proxy.Body,
) proxy.Envelope {
	return s.gateway.Forward(ctx, creds, proxy.Request{
		Method:       http.MethodPatch,
		Path:         kind.path(),
		Body:         body,
		AuthRequired: true,
	})
}

// ListArtists queries the public artist listing with the supported filters only.
func (s *ProfileService) ListArtists(ctx context.Context, creds ports.CredentialStore, query url.Values) proxy.Envelope {
	filtered := url.Values{}
	for _, key := range artistFilters {
		if v := query.Get(key); v != "" {
			filtered.Set(key, v)
		}
	}
	return s.gateway.Forward(ctx, creds, proxy.Request{
		Method: http.MethodGet,
		Path:   artistsPath,
		Query:  filtered,
	})
}
