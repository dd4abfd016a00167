package config

import (
	"strings"
	"time"
)

const defaultJobsAPITimeout = 15 * time.Second

// JobsAPIConfig describes the remote job-search service the board talks to.
type JobsAPIConfig struct {
	// BaseURL is the scheme://host[:port] of the job-search API.
	BaseURL string `env:"BASE_URL" envDefault:"http://127.0.0.1:8000"`

	// Timeout bounds every remote call so a hung request cannot pin an in-flight flag forever.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// Endpoint paths, relative to BaseURL.
	JobsPath     string `env:"JOBS_PATH"     envDefault:"/api/jobs/"`
	ScrapePath   string `env:"SCRAPE_PATH"   envDefault:"/api/scrape/"`
	CheckoutPath string `env:"CHECKOUT_PATH" envDefault:"/api/payments/create-checkout-session/"`

	// JMESPath expressions locating the pieces of the listing envelope.
	ResultsPath  string `env:"RESULTS_PATH"  envDefault:"results"`
	NextPath     string `env:"NEXT_PATH"     envDefault:"next"`
	PreviousPath string `env:"PREVIOUS_PATH" envDefault:"previous"`
	CountPath    string `env:"COUNT_PATH"    envDefault:"count"`

	// CursorHosts lists extra host[:port] values pagination cursors may point at, for APIs that
	// advertise a different hostname than BaseURL (localhost vs 127.0.0.1, a public alias).
	CursorHosts []string `env:"CURSOR_HOSTS" envDefault:""`

	// Circuit breaker: consecutive failures before opening, and how long it stays open.
	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"BREAKER_COOLDOWN" envDefault:"30s"`
}

// Sanitize applies guardrails to job API configuration values.
func (c *JobsAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:8000"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultJobsAPITimeout
	}
	c.CursorHosts = trimList(c.CursorHosts)
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	c.JobsPath = fallbackPath(c.JobsPath, "/api/jobs/")
	c.ScrapePath = fallbackPath(c.ScrapePath, "/api/scrape/")
	c.CheckoutPath = fallbackPath(c.CheckoutPath, "/api/payments/create-checkout-session/")
	c.ResultsPath = fallbackString(c.ResultsPath, "results")
	c.NextPath = fallbackString(c.NextPath, "next")
	c.PreviousPath = fallbackString(c.PreviousPath, "previous")
	c.CountPath = fallbackString(c.CountPath, "count")
}

func fallbackPath(p, def string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return def
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func fallbackString(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
