package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/target/jobboard-ui/config"
	"github.com/target/jobboard-ui/internal/observability/statsd"
)

const sentryFlushTimeout = 2 * time.Second

// InitSentry configures the global Sentry client used by the panic recovery middleware.
// The returned flush func must run before exit; it is a no-op when reporting is disabled.
func InitSentry(cfg config.SentryConfig, logger *slog.Logger) (func(), error) {
	if !cfg.Enabled() {
		return func() {}, nil
	}

	serverName, _ := os.Hostname()
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		AttachStacktrace: true,
		TracesSampleRate: cfg.TracesSampleRate,
		ServerName:       serverName,
		Release:          cfg.Release,
		Environment:      cfg.Environment,
	}); err != nil {
		return func() {}, fmt.Errorf("init sentry: %w", err)
	}
	if logger != nil {
		logger.Info("sentry error reporting enabled", "environment", cfg.Environment)
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// InitMetrics builds the StatsD client. A disabled config yields a client that drops metrics.
func InitMetrics(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(ctx, statsd.Config{
		Enabled:    cfg.Enabled,
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		GlobalTags: cfg.Tags,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	if logger != nil && client.Enabled() {
		logger.Info("statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	}
	return client, nil
}
