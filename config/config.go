package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - board.go: View state storage and board defaults
//   - redis.go: Redis configuration
//   - http.go: HTTP server configuration
//   - jobsapi.go: Remote job-search API configuration
//   - observability.go: Sentry error reporting and StatsD metrics
type AppConfig struct {
	// IsDev controls development mode behavior (hot reloading, caching, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Redis connection used by the redis view state store.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Remote job-search API configuration
	JobsAPI JobsAPIConfig `envPrefix:"JOBS_API_"`

	// Board view state configuration
	Board BoardConfig `envPrefix:"BOARD_"`

	// Error reporting
	Sentry SentryConfig `envPrefix:"SENTRY_"`

	// StatsD metrics
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Redis.Sanitize()
	c.JobsAPI.Sanitize()
	c.Board.Sanitize()
	c.Sentry.Sanitize()
	c.Metrics.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether view state should be kept in Redis.
func (c *AppConfig) UsesRedis() bool {
	return c.Board.Store == StateStoreRedis
}
