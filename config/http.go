package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain scopes the board_view and csrf_token cookies. Empty means the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// Gzip for HTML fragments and text assets.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	// WriteTimeout must exceed JOBS_API_TIMEOUT: a board action waits for the remote call.
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize clamps the compression level to 1-9 and restores defaults for non-positive timeouts.
func (h *HTTPConfig) Sanitize() {
	switch {
	case h.CompressionLevel < 1:
		h.CompressionLevel = 1
	case h.CompressionLevel > 9:
		h.CompressionLevel = 9
	}
	h.ReadHeaderTimeout = positiveOr(h.ReadHeaderTimeout, 10*time.Second)
	h.WriteTimeout = positiveOr(h.WriteTimeout, 30*time.Second)
	h.IdleTimeout = positiveOr(h.IdleTimeout, 120*time.Second)
	h.ShutdownTimeout = positiveOr(h.ShutdownTimeout, 10*time.Second)
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
