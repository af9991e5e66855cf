package config

import (
	"fmt"
	"strings"
)

// LoginMode selects how the local login endpoint is answered.
type LoginMode string

const (
	// LoginModeStub answers from the fixed demo credential pair.
	LoginModeStub LoginMode = "stub"
	// LoginModeBackend forwards to the backend login endpoint.
	LoginModeBackend LoginMode = "backend"
)

// UnmarshalText implements encoding.TextUnmarshaler for LoginMode.
func (m *LoginMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "stub", "backend":
		*m = LoginMode(v)
		return nil
	default:
		return fmt.Errorf("invalid LoginMode: %q (valid options: stub, backend)", v)
	}
}

// IdentityMappingConfig holds the JMESPath expressions that map the backend's
// current-user payload into a principal.
type IdentityMappingConfig struct {
	ID          string `env:"ID_EXPR"           envDefault:"id"`
	DisplayName string `env:"DISPLAY_NAME_EXPR" envDefault:"display_name || username || email"`
	Email       string `env:"EMAIL_EXPR"        envDefault:"email"`
	Role        string `env:"ROLE_EXPR"         envDefault:"role"`
}

// AuthConfig groups session-related configuration.
type AuthConfig struct {
	LoginMode LoginMode `env:"AUTH_LOGIN_MODE" envDefault:"stub"`

	// AccessTTL and RefreshTTL are cookie lifetimes in seconds.
	AccessTTL  int `env:"AUTH_ACCESS_TTL"  envDefault:"3600"`
	RefreshTTL int `env:"AUTH_REFRESH_TTL" envDefault:"604800"`

	// LoginPath is where the dashboard guard sends unauthenticated browsers.
	LoginPath string `env:"AUTH_LOGIN_PATH" envDefault:"/login"`

	Identity IdentityMappingConfig `envPrefix:"AUTH_IDENTITY_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.AccessTTL <= 0 {
		a.AccessTTL = 3600
	}
	if a.RefreshTTL <= 0 {
		a.RefreshTTL = 604800
	}
	a.LoginPath = strings.TrimSpace(a.LoginPath)
	if !strings.HasPrefix(a.LoginPath, "/") || strings.HasPrefix(a.LoginPath, "//") {
		a.LoginPath = "/login"
	}
}
