package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// BackendConfig describes the remote backend every proxied call goes to.
type BackendConfig struct {
	// BaseURL is the single backend origin, including its API prefix.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds each outbound call. Zero means no local timeout.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout < 0 {
		b.Timeout = 0
	}
}

// Validate checks that BaseURL is an absolute http(s) URL.
func (b *BackendConfig) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("BACKEND_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL: %q must be an absolute http(s) URL", b.BaseURL)
	}
	return nil
}
