package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard-ui/config"
	"github.com/target/jobboard-ui/internal/adapters/jobsapi"
	"github.com/target/jobboard-ui/internal/adapters/memstore"
	redisstore "github.com/target/jobboard-ui/internal/adapters/redis"
	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/board"
	httpx "github.com/target/jobboard-ui/internal/http"
	"github.com/target/jobboard-ui/internal/observability/statsd"
	"github.com/target/jobboard-ui/internal/service"
)

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Board *service.BoardService
	Store core.ViewStateStore
	// Sweeper is the in-memory store when it is in use; nil with the Redis store.
	Sweeper *memstore.Store
	Ready   httpx.ReadinessFunc
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // Required when the Redis store is configured
	HTTPClient  *http.Client          // Optional: client for the jobs API
	Metrics     statsd.Sink           // Optional: remote call metrics
	Logger      *slog.Logger
}

// NewServices wires the view state store, the jobs API client and the board service.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, sweeper, err := newViewStateStore(cfg, deps.RedisClient, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	api, err := newJobsAPIClient(cfg.JobsAPI, deps.HTTPClient)
	if err != nil {
		return ServiceContainer{}, err
	}

	boardSvc, err := service.NewBoardService(service.BoardServiceOptions{
		API:   api,
		Store: store,
		Scrape: board.ScrapeDefaults{
			Keyword:  cfg.Board.ScrapeDefaultKeyword,
			Location: cfg.Board.ScrapeLocation,
		},
		Timeout:     cfg.JobsAPI.Timeout,
		CursorHosts: cfg.JobsAPI.CursorHosts,
		Logger:      logger,
		Metrics:     deps.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("board service: %w", err)
	}

	return ServiceContainer{
		Board:   boardSvc,
		Store:   store,
		Sweeper: sweeper,
		Ready:   newReadiness(cfg, deps.RedisClient),
	}, nil
}

func newViewStateStore(
	cfg *config.AppConfig,
	client redis.UniversalClient,
	logger *slog.Logger,
) (core.ViewStateStore, *memstore.Store, error) {
	if cfg.UsesRedis() {
		if client == nil {
			return nil, nil, errors.New("redis view state store configured without a redis client")
		}
		logger.Info("view state store", "backend", "redis", "prefix", cfg.Board.RedisKeyPrefix)
		return redisstore.NewViewStateStore(client, redisstore.ViewStateStoreOptions{
			Prefix: cfg.Board.RedisKeyPrefix,
			TTL:    cfg.Board.StateTTL,
		}), nil, nil
	}

	logger.Info("view state store", "backend", "memory", "max_views", cfg.Board.MaxViews)
	mem := memstore.New(memstore.Options{
		TTL:        cfg.Board.StateTTL,
		MaxEntries: cfg.Board.MaxViews,
		Logger:     logger,
	})
	return mem, mem, nil
}

func newJobsAPIClient(cfg config.JobsAPIConfig, hc *http.Client) (*jobsapi.Client, error) {
	client, err := jobsapi.NewClient(jobsapi.Config{
		BaseURL:      cfg.BaseURL,
		JobsPath:     cfg.JobsPath,
		ScrapePath:   cfg.ScrapePath,
		CheckoutPath: cfg.CheckoutPath,
		Envelope: jobsapi.EnvelopePaths{
			Results:  cfg.ResultsPath,
			Next:     cfg.NextPath,
			Previous: cfg.PreviousPath,
			Count:    cfg.CountPath,
		},
		Timeout:         cfg.Timeout,
		Client:          hc,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	})
	if err != nil {
		return nil, fmt.Errorf("jobs api client: %w", err)
	}
	return client, nil
}

// newReadiness pings Redis when view state lives there; the in-memory store is always ready.
func newReadiness(cfg *config.AppConfig, client redis.UniversalClient) httpx.ReadinessFunc {
	if !cfg.UsesRedis() || client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
