package config

import "strings"

// SentryConfig configures panic and error reporting. Reporting is off when DSN is empty.
type SentryConfig struct {
	DSN              string  `env:"DSN"                envDefault:""`
	Environment      string  `env:"ENVIRONMENT"        envDefault:""`
	Release          string  `env:"RELEASE"            envDefault:""`
	TracesSampleRate float64 `env:"TRACES_SAMPLE_RATE" envDefault:"0"`
}

// Enabled reports whether a DSN is configured.
func (s *SentryConfig) Enabled() bool {
	return strings.TrimSpace(s.DSN) != ""
}

// Sanitize clamps the sample rate to [0, 1].
func (s *SentryConfig) Sanitize() {
	s.DSN = strings.TrimSpace(s.DSN)
	switch {
	case s.TracesSampleRate < 0:
		s.TracesSampleRate = 0
	case s.TracesSampleRate > 1:
		s.TracesSampleRate = 1
	}
}

// MetricsConfig configures the StatsD metrics client.
type MetricsConfig struct {
	Enabled       bool   `env:"ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"PREFIX"         envDefault:"jobboard"`
	// Tags are attached to every metric, e.g. "env:prod,region:eu".
	Tags map[string]string `env:"TAGS" envKeyValSeparator:":"`
}

// Sanitize trims the address and prefix.
func (m *MetricsConfig) Sanitize() {
	m.StatsdAddress = strings.TrimSpace(m.StatsdAddress)
	m.Prefix = strings.Trim(strings.TrimSpace(m.Prefix), ".")
	if m.StatsdAddress == "" {
		m.Enabled = false
	}
}
