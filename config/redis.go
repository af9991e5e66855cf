package config

import (
	"strings"
	"time"
)

// RedisConfig contains configuration for the demo identity store.
// An empty Addr keeps demo identities in process memory.
type RedisConfig struct {
	Addr      string        `env:"ADDR"       envDefault:""`
	Password  string        `env:"PASSWORD"   envDefault:""`
	DB        int           `env:"DB"         envDefault:"0"`
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"demo_identity:"`
	DemoTTL   time.Duration `env:"DEMO_TTL"   envDefault:"720h"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	r.Addr = strings.TrimSpace(r.Addr)
	if r.DB < 0 {
		r.DB = 0
	}
	if r.KeyPrefix == "" {
		r.KeyPrefix = "demo_identity:"
	}
	if r.DemoTTL < 0 {
		r.DemoTTL = 0
	}
}

// Enabled reports whether a Redis server is configured.
func (r *RedisConfig) Enabled() bool { return r.Addr != "" }
