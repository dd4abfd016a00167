package config

import (
	"strings"
	"time"
)

// StateStore selects where per-browser view state lives.
type StateStore string

const (
	// StateStoreMemory keeps view state in process memory (single instance deployments, dev).
	StateStoreMemory StateStore = "memory"
	// StateStoreRedis keeps view state in Redis so any instance can serve a browser.
	StateStoreRedis StateStore = "redis"
)

// BoardConfig contains view state and board behaviour configuration.
type BoardConfig struct {
	// Store selects the view state backend: "memory" or "redis".
	Store StateStore `env:"STATE_STORE" envDefault:"memory"`

	// StateTTL is how long an idle view state is kept.
	StateTTL time.Duration `env:"STATE_TTL" envDefault:"2h"`

	// SweepInterval controls how often the memory store evicts idle views.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`

	// MaxViews caps the number of views the memory store keeps.
	MaxViews int `env:"MAX_VIEWS" envDefault:"10000"`

	// RedisKeyPrefix namespaces view state keys in Redis.
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"jobboard:view:"`

	// ScrapeDefaultKeyword is sent when the skills filter is empty.
	ScrapeDefaultKeyword string `env:"SCRAPE_DEFAULT_KEYWORD" envDefault:"Python"`

	// ScrapeLocation is sent with every scrape request.
	ScrapeLocation string `env:"SCRAPE_LOCATION" envDefault:"Europe"`
}

// Sanitize applies guardrails to board configuration values.
func (b *BoardConfig) Sanitize() {
	switch StateStore(strings.ToLower(strings.TrimSpace(string(b.Store)))) {
	case StateStoreRedis:
		b.Store = StateStoreRedis
	default:
		b.Store = StateStoreMemory
	}
	if b.StateTTL <= 0 {
		b.StateTTL = 2 * time.Hour
	}
	if b.SweepInterval <= 0 {
		b.SweepInterval = 5 * time.Minute
	}
	if b.MaxViews <= 0 {
		b.MaxViews = 10000
	}
	if strings.TrimSpace(b.RedisKeyPrefix) == "" {
		b.RedisKeyPrefix = "jobboard:view:"
	}
	b.ScrapeDefaultKeyword = fallbackString(b.ScrapeDefaultKeyword, "Python")
	b.ScrapeLocation = fallbackString(b.ScrapeLocation, "Europe")
}
