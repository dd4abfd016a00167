package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/board"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
	"github.com/target/jobboard-ui/internal/observability/metrics"
	"github.com/target/jobboard-ui/internal/observability/statsd"
)

// CheckoutReturnParam is the query parameter the checkout provider appends on return.
const CheckoutReturnParam = "session_id"

const defaultRemoteTimeout = 15 * time.Second

// BoardServiceOptions groups dependencies for BoardService.
type BoardServiceOptions struct {
	API         core.JobsAPI         // Required: remote job-search API
	Store       core.ViewStateStore  // Required: per-view state storage
	Scrape      board.ScrapeDefaults // Optional: defaults to keyword "Python", location "Europe"
	Timeout     time.Duration        // Optional: deadline for each remote call
	CursorHosts []string             // Optional: extra hosts pagination cursors may point at
	Now         func() time.Time     // Optional: clock
	Logger      *slog.Logger         // Optional: structured logger
	Metrics     statsd.Sink          // Optional: remote call metrics
}

// BoardService is the view-state controller of the job board. Every user action maps to one
// method; each method reads and writes the view state through the store and performs remote
// calls outside of any store lock.
//
// Remote responses are applied only when the generation counter they were issued under is
// still current, so a slow response can never overwrite the effect of a newer request.
type BoardService struct {
	api         core.JobsAPI
	store       core.ViewStateStore
	scrape      board.ScrapeDefaults
	timeout     time.Duration
	cursorHosts []string
	now         func() time.Time
	logger      *slog.Logger
	metrics     statsd.Sink
}

// NewBoardService constructs a BoardService.
func NewBoardService(opts BoardServiceOptions) (*BoardService, error) {
	if opts.API == nil {
		return nil, errors.New("JobsAPI is required")
	}
	if opts.Store == nil {
		return nil, errors.New("ViewStateStore is required")
	}

	scrape := opts.Scrape
	if strings.TrimSpace(scrape.Keyword) == "" {
		scrape.Keyword = "Python"
	}
	if strings.TrimSpace(scrape.Location) == "" {
		scrape.Location = "Europe"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BoardService{
		api:         opts.API,
		store:       opts.Store,
		scrape:      scrape,
		timeout:     timeout,
		cursorHosts: opts.CursorHosts,
		now:         now,
		logger:      logger.With("component", "board_service"),
		metrics:     opts.Metrics,
	}, nil
}

// State returns the current state of a view, creating an empty one when it does not exist.
func (s *BoardService) State(ctx context.Context, viewID string) (*model.ViewState, error) {
	state, err := s.store.Get(ctx, viewID)
	if apperrors.IsNotFound(err) || errors.Is(err, core.ErrCorruptViewState) {
		return s.update(ctx, viewID, func(*model.ViewState) error { return nil })
	}
	return state, err
}

// update applies fn through the store. An unreadable stored state is discarded and the
// update is applied to a fresh one.
func (s *BoardService) update(ctx context.Context, viewID string, fn core.UpdateFunc) (*model.ViewState, error) {
	state, err := s.store.Update(ctx, viewID, fn)
	if !errors.Is(err, core.ErrCorruptViewState) {
		return state, err
	}
	s.logger.WarnContext(ctx, "discarding unreadable view state", "view_id", viewID, "error", err)
	if err := s.store.Delete(ctx, viewID); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, viewID, fn)
}

// Mount resets the view to its initial state and runs the initial search. When the query
// carries a checkout return parameter, the returned state has a one-time confirmation notice;
// the notice is never stored, so later renders do not repeat it.
func (s *BoardService) Mount(ctx context.Context, viewID string, query url.Values) (*model.ViewState, error) {
	if _, err := s.update(ctx, viewID, func(state *model.ViewState) error {
		state.Reset(s.now())
		return nil
	}); err != nil {
		return nil, err
	}

	state, err := s.Search(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if CheckoutReturned(query) {
		state.UI.Notice = board.CheckoutReturnNotice
		s.logger.InfoContext(ctx, "checkout return detected", "view_id", viewID)
	}
	return state, nil
}

// CheckoutReturned reports whether the query marks a return from the checkout provider.
func CheckoutReturned(query url.Values) bool {
	return query != nil && query.Has(CheckoutReturnParam)
}

// StripCheckoutReturn removes the checkout return parameter from u and reports whether it
// was present.
func StripCheckoutReturn(u *url.URL) (*url.URL, bool) {
	if u == nil {
		return nil, false
	}
	q := u.Query()
	if !q.Has(CheckoutReturnParam) {
		return u, false
	}
	q.Del(CheckoutReturnParam)
	out := *u
	out.RawQuery = q.Encode()
	return &out, true
}

// UpdateFilter replaces the filter inputs without fetching.
func (s *BoardService) UpdateFilter(
	ctx context.Context,
	viewID string,
	filter model.FilterState,
) (*model.ViewState, error) {
	if !filter.Seniority.Valid() {
		return nil, apperrors.ValidationField("seniority", "unknown seniority")
	}
	return s.update(ctx, viewID, func(state *model.ViewState) error {
		state.Filter = filter
		return nil
	})
}

// Search fetches the first page for the current filters.
func (s *BoardService) Search(ctx context.Context, viewID string) (*model.ViewState, error) {
	var query url.Values
	return s.fetch(ctx, viewID, func(state *model.ViewState) {
		query = board.BuildQuery(state.Filter)
	}, func(ctx context.Context) (*model.PageState, error) {
		return s.api.ListJobs(ctx, query)
	})
}

// GoToPage fetches exactly the page behind cursor, ignoring the filters. Cursors that point
// neither at the API site nor at a configured cursor host are rejected without a request.
func (s *BoardService) GoToPage(ctx context.Context, viewID, cursor string) (*model.ViewState, error) {
	target, err := board.ResolveCursor(s.api.BaseURL(), cursor, s.cursorHosts...)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, viewID, nil, func(ctx context.Context) (*model.PageState, error) {
		return s.api.FetchPage(ctx, target)
	})
}

// Page follows the stored cursor in direction. A missing cursor is a no-op.
func (s *BoardService) Page(ctx context.Context, viewID string, dir board.Direction) (*model.ViewState, error) {
	state, err := s.State(ctx, viewID)
	if err != nil {
		return nil, err
	}
	var cursor string
	switch dir {
	case board.DirectionNext:
		cursor = state.Page.Next
	case board.DirectionPrevious:
		cursor = state.Page.Previous
	default:
		return nil, apperrors.ValidationField("direction", "unknown page direction")
	}
	if cursor == "" {
		return state, nil
	}
	return s.GoToPage(ctx, viewID, cursor)
}

// fetch runs one listing request under a fresh fetch generation. prepare runs inside the
// first store update and may capture request inputs from the state.
func (s *BoardService) fetch(
	ctx context.Context,
	viewID string,
	prepare func(*model.ViewState),
	call func(context.Context) (*model.PageState, error),
) (*model.ViewState, error) {
	var gen uint64
	if _, err := s.update(ctx, viewID, func(state *model.ViewState) error {
		state.Generations.Fetch++
		gen = state.Generations.Fetch
		state.UI.Loading = true
		state.UI.ScrapeMessage = ""
		if prepare != nil {
			prepare(state)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	start := s.now()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	page, callErr := call(callCtx)
	cancel()
	elapsed := s.now().Sub(start)

	stale := false
	defer func() {
		metrics.EmitRemoteCall(s.metrics, metrics.RemoteCall{
			Call: metrics.CallListJobs, Duration: elapsed, Err: callErr, Stale: stale,
		})
	}()

	// The in-flight flag must clear even when the browser went away mid-request.
	return s.update(context.WithoutCancel(ctx), viewID, func(state *model.ViewState) error {
		stale = state.Generations.Fetch != gen
		if stale {
			s.logger.DebugContext(ctx, "discarding stale listing response",
				"view_id", viewID, "generation", gen, "current", state.Generations.Fetch)
			return nil
		}
		state.UI.Loading = false
		if callErr != nil {
			s.logger.ErrorContext(ctx, "failed to fetch listings",
				"view_id", viewID,
				"error", callErr,
				"code", apperrors.GetCode(callErr),
			)
			return nil
		}
		state.Page = *page
		state.UI.ExpandedJobID = ""
		return nil
	})
}

// ToggleExpand expands jobID, or collapses it when it is already expanded.
func (s *BoardService) ToggleExpand(ctx context.Context, viewID, jobID string) (*model.ViewState, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, apperrors.ValidationField("id", "job id is required")
	}
	return s.update(ctx, viewID, func(state *model.ViewState) error {
		state.UI.ExpandedJobID = board.ToggleExpansion(state.UI.ExpandedJobID, jobID)
		return nil
	})
}

// TriggerScrape asks the backend to start a scraping job for the current skills filter.
// It never re-runs the search.
func (s *BoardService) TriggerScrape(ctx context.Context, viewID string) (*model.ViewState, error) {
	var (
		gen uint64
		req model.ScrapeRequest
	)
	if _, err := s.update(ctx, viewID, func(state *model.ViewState) error {
		state.Generations.Scrape++
		gen = state.Generations.Scrape
		state.UI.ScrapeInFlight = true
		req = board.ScrapeRequestFor(state.Filter, s.scrape)
		return nil
	}); err != nil {
		return nil, err
	}

	start := s.now()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	resp, callErr := s.api.TriggerScrape(callCtx, req)
	cancel()
	elapsed := s.now().Sub(start)

	message := board.ScrapeFailedMessage
	if callErr != nil {
		s.logger.ErrorContext(ctx, "failed to start scraper",
			"view_id", viewID, "keyword", req.Keyword, "error", callErr)
	} else {
		message = board.ScrapeMessage(*resp)
		s.logger.InfoContext(ctx, "scraper started", "view_id", viewID, "keyword", req.Keyword)
	}

	stale := false
	defer func() {
		metrics.EmitRemoteCall(s.metrics, metrics.RemoteCall{
			Call: metrics.CallScrape, Duration: elapsed, Err: callErr, Stale: stale,
		})
	}()

	return s.update(context.WithoutCancel(ctx), viewID, func(state *model.ViewState) error {
		stale = state.Generations.Scrape != gen
		if stale {
			return nil
		}
		state.UI.ScrapeInFlight = false
		state.UI.ScrapeMessage = message
		return nil
	})
}

// StartCheckout requests a checkout session. The outcome carries either the URL the browser
// must navigate to or a blocking alert. A response superseded by a newer checkout request
// yields an empty outcome.
func (s *BoardService) StartCheckout(ctx context.Context, viewID string) (model.CheckoutOutcome, error) {
	var gen uint64
	if _, err := s.update(ctx, viewID, func(state *model.ViewState) error {
		state.Generations.Payment++
		gen = state.Generations.Payment
		state.UI.PaymentInFlight = true
		return nil
	}); err != nil {
		return model.CheckoutOutcome{}, err
	}

	start := s.now()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	session, callErr := s.api.CreateCheckoutSession(callCtx)
	cancel()
	elapsed := s.now().Sub(start)

	var outcome model.CheckoutOutcome
	switch {
	case callErr != nil:
		s.logger.ErrorContext(ctx, "checkout session request failed", "view_id", viewID, "error", callErr)
		outcome.Alert = board.CheckoutUnavailableMessage
	case session == nil || !validRedirect(session.URL):
		s.logger.WarnContext(ctx, "checkout session returned no usable url", "view_id", viewID)
		outcome.Alert = board.CheckoutNoURLMessage
	default:
		outcome.RedirectURL = session.URL
	}

	current := true
	if _, err := s.update(context.WithoutCancel(ctx), viewID, func(state *model.ViewState) error {
		current = state.Generations.Payment == gen
		if !current {
			return nil
		}
		state.UI.PaymentInFlight = false
		return nil
	}); err != nil {
		return model.CheckoutOutcome{}, err
	}
	metrics.EmitRemoteCall(s.metrics, metrics.RemoteCall{
		Call: metrics.CallCheckout, Duration: elapsed, Err: callErr, Stale: !current,
	})
	if !current {
		return model.CheckoutOutcome{}, nil
	}
	return outcome, nil
}

func validRedirect(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
