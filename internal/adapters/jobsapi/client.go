// Package jobsapi is the HTTP client for the remote job-search service: paginated listings,
// the scraper trigger and the checkout-session endpoint.
package jobsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
)

const (
	defaultTimeout         = 15 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	maxBodyBytes           = 4 << 20
	maxErrorSnippet        = 512
	userAgent              = "jobboard-ui"
)

var _ core.JobsAPI = (*Client)(nil)

// Config captures the endpoints and behaviour of the job-search API.
type Config struct {
	BaseURL      string
	JobsPath     string
	ScrapePath   string
	CheckoutPath string
	Envelope     EnvelopePaths
	Timeout      time.Duration
	Client       *http.Client

	// BreakerFailures is the number of consecutive transport failures that open the
	// circuit. BreakerCooldown is how long it stays open before a probe is let through.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client talks to the job-search API.
type Client struct {
	base     *url.URL
	jobs     *url.URL
	scrape   *url.URL
	checkout *url.URL
	envelope *envelope
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// NewClient builds a client. BaseURL must be an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse jobs api base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("jobs api base url %q must be an absolute http(s) url", cfg.BaseURL)
	}

	env, err := compileEnvelope(cfg.Envelope)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{base: base, envelope: env, client: hc, breaker: newBreaker(cfg)}
	if c.jobs, err = endpoint(base, cfg.JobsPath, "/api/jobs/"); err != nil {
		return nil, err
	}
	if c.scrape, err = endpoint(base, cfg.ScrapePath, "/api/scrape/"); err != nil {
		return nil, err
	}
	if c.checkout, err = endpoint(base, cfg.CheckoutPath, "/api/payments/create-checkout-session/"); err != nil {
		return nil, err
	}
	return c, nil
}

func newBreaker(cfg Config) *gobreaker.CircuitBreaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "jobs-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !tripsBreaker(err)
		},
	})
}

// tripsBreaker reports whether err says the remote service is unhealthy. Client-side
// cancellations, decode problems and 4xx answers do not count.
func tripsBreaker(err error) bool {
	if apperrors.IsTimeout(err) {
		return true
	}
	if !apperrors.IsTransport(err) {
		return false
	}
	status := apperrors.GetStatus(err)
	return status == 0 || status >= http.StatusInternalServerError
}

func endpoint(base *url.URL, path, fallback string) (*url.URL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = fallback
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint path %q: %w", path, err)
	}
	return base.ResolveReference(ref), nil
}

// BaseURL returns a copy of the API base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// ListJobs fetches the first page of listings for query.
func (c *Client) ListJobs(ctx context.Context, query url.Values) (*model.PageState, error) {
	u := *c.jobs
	u.RawQuery = query.Encode()
	return c.getPage(ctx, &u)
}

// FetchPage fetches the page behind cursor exactly as given.
func (c *Client) FetchPage(ctx context.Context, cursor *url.URL) (*model.PageState, error) {
	if cursor == nil {
		return nil, apperrors.ValidationField("cursor", "cursor is required")
	}
	return c.getPage(ctx, cursor)
}

// TriggerScrape starts a scraping job.
func (c *Client) TriggerScrape(ctx context.Context, req model.ScrapeRequest) (*model.ScrapeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode scrape request")
	}
	var out model.ScrapeResponse
	if err := c.do(ctx, http.MethodPost, c.scrape, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession requests a checkout session. The request has no body.
func (c *Client) CreateCheckoutSession(ctx context.Context) (*model.CheckoutSession, error) {
	var out model.CheckoutSession
	if err := c.do(ctx, http.MethodPost, c.checkout, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getPage(ctx context.Context, u *url.URL) (*model.PageState, error) {
	var raw any
	if err := c.do(ctx, http.MethodGet, u, nil, &raw); err != nil {
		return nil, err
	}
	page, err := c.envelope.decode(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDecode, "decode listing envelope")
	}
	return page, nil
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, body []byte, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, u, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, fmt.Sprintf("%s %s: jobs api unavailable", method, u.Path))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method string, u *url.URL, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "create jobs api request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.MapRemoteError(err, fmt.Sprintf("%s %s failed", method, u.Path))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp, method, u)
	}
	return decodeSuccess(resp, method, u, out)
}

func decodeSuccess(resp *http.Response, method string, u *url.URL, out any) error {
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	decodeErr := dec.Decode(out)
	if errors.Is(decodeErr, io.EOF) {
		// Empty body; leave out at its zero value.
		decodeErr = nil
	}
	closeErr := resp.Body.Close()
	if decodeErr != nil {
		return apperrors.Wrap(
			errors.Join(decodeErr, closeErr),
			apperrors.ErrCodeDecode,
			fmt.Sprintf("decode %s %s response", method, u.Path),
		)
	}
	if closeErr != nil {
		return apperrors.MapRemoteError(closeErr, "close response body")
	}
	return nil
}

func handleErrorResponse(resp *http.Response, method string, u *url.URL) error {
	snippet, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
	closeErr := resp.Body.Close()
	msg := fmt.Sprintf("%s %s: %s", method, u.Path, resp.Status)
	if text := strings.TrimSpace(string(snippet)); text != "" {
		msg += ": " + text
	}
	appErr := apperrors.RemoteStatus(resp.StatusCode, msg)
	if cause := errors.Join(readErr, closeErr); cause != nil {
		appErr.Cause = cause
	}
	return appErr
}
