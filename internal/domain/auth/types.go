// Package auth contains domain-level types for credentials, principals and identity sources.
// It is pure and free of framework/adapter concerns.
package auth

import "strings"

// Role represents a marketplace role as asserted by the backend.
// Keep string form for easy persistence and JSON.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
	RoleMuseum Role = "museum"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a backend role string. Unknown or empty values map to RoleGuest.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleBuyer, RoleArtist, RoleMuseum, RoleAdmin:
		return r
	default:
		return RoleGuest
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleBuyer, RoleArtist, RoleMuseum, RoleAdmin:
		return true
	default:
		return false
	}
}

// TokenKind selects one of the two bearer credentials held by the credential store.
type TokenKind string

const (
	AccessToken  TokenKind = "access_token"
	RefreshToken TokenKind = "refresh_token"
)

// CookieName returns the cookie name used to persist the token kind.
func (k TokenKind) CookieName() string { return string(k) }

// Principal is the current user as reported by the backend identity endpoint.
// It is derived on demand and never cached beyond a single resolution.
type Principal struct {
	Identifier   string `json:"id"`
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email"`
	Role         Role   `json:"role"`
}

// IsGuest returns true if the principal carries the guest role.
func (p Principal) IsGuest() bool { return p.Role == RoleGuest }

// DemoIdentity is a locally synthesized, non-authoritative identity.
// It carries no token and can never authenticate a backend call.
type DemoIdentity struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmailAddress string `json:"email"`
	Role         Role   `json:"role"`
	AvatarRef    string `json:"avatar"`
}

// DisplayName joins first and last name.
func (d DemoIdentity) DisplayName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
