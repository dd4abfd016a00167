package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/target/jobboard-ui/config"
)

// InitLogger installs a JSON slog logger as the default. LOG_LEVEL (debug, info, warn, error)
// overrides the info level; it is read directly because logging starts before config loads.
func InitLogger() *slog.Logger {
	level := slog.LevelInfo
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelInfo
		}
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig rejects configurations the board cannot start with.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	var errs []error
	if err := validateBaseURL(cfg.JobsAPI.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if cfg.UsesRedis() {
		errs = append(errs, validateRedis(cfg.Redis))
	}
	if cfg.HTTP.WriteTimeout > 0 && cfg.JobsAPI.Timeout >= cfg.HTTP.WriteTimeout {
		errs = append(errs, fmt.Errorf("JOBS_API_TIMEOUT (%s) must be shorter than HTTP_WRITE_TIMEOUT (%s)",
			cfg.JobsAPI.Timeout, cfg.HTTP.WriteTimeout))
	}
	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("JOBS_API_BASE_URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("JOBS_API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("JOBS_API_BASE_URL must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

func validateRedis(r config.RedisConfig) error {
	switch {
	case r.UseCluster:
		if len(r.ClusterNodes) == 0 && strings.TrimSpace(r.URI) == "" {
			return errors.New("REDIS_CLUSTER_NODES or REDIS_URI is required when REDIS_USE_CLUSTER=true")
		}
	case r.UseSentinel:
		if len(r.SentinelNodes) == 0 || strings.TrimSpace(r.SentinelMasterName) == "" {
			return errors.New("REDIS_SENTINEL_NODES and REDIS_SENTINEL_MASTER_NAME are required when REDIS_USE_SENTINEL=true")
		}
	case strings.TrimSpace(r.URI) == "":
		return errors.New("REDIS_URI is required when BOARD_STATE_STORE=redis")
	}
	return nil
}
