package config

import (
	"errors"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: session cookie and login configuration
//   - backend.go: remote backend configuration
//   - http.go: HTTP server and cookie attributes
//   - redis.go: demo identity storage
//   - observability.go: metrics and tracing
type AppConfig struct {
	// IsDev echoes transport failure causes to the browser.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev   bool   `env:"DEV"      envDefault:"false"`
	NodeEnv string `env:"NODE_ENV"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Auth          AuthConfig
	Backend       BackendConfig
	HTTP          HTTPConfig
	Redis         RedisConfig `envPrefix:"REDIS_"`
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Backend.Sanitize()
	c.HTTP.Sanitize()
	c.Redis.Sanitize()
	c.Observability.Sanitize()
	c.detectDevMode()
}

// Validate reports values that cannot be corrected by Sanitize.
func (c *AppConfig) Validate() error {
	return errors.Join(c.Backend.Validate(), c.HTTP.Validate())
}

// detectDevMode treats NODE_ENV=development as a fallback for DEV
// (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(strings.TrimSpace(c.NodeEnv))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
