package core

import (
	"context"
	"errors"
	"net/url"

	"github.com/target/jobboard-ui/internal/domain/model"
)

// This file contains the ports the board service depends on. Adapters under internal/adapters
// implement them; the service never imports an adapter directly.

// JobsAPI is the remote job-search service.
type JobsAPI interface {
	// ListJobs fetches the first page of listings matching query.
	ListJobs(ctx context.Context, query url.Values) (*model.PageState, error)
	// FetchPage fetches exactly the page behind a server-supplied cursor URL.
	FetchPage(ctx context.Context, cursor *url.URL) (*model.PageState, error)
	// TriggerScrape asks the backend to start a scraping job.
	TriggerScrape(ctx context.Context, req model.ScrapeRequest) (*model.ScrapeResponse, error)
	// CreateCheckoutSession asks the payment backend for a checkout session.
	CreateCheckoutSession(ctx context.Context) (*model.CheckoutSession, error)
	// BaseURL is the API origin pagination cursors must stay on.
	BaseURL() *url.URL
}

// ErrCorruptViewState marks a stored view state that can no longer be decoded.
var ErrCorruptViewState = errors.New("view state is unreadable")

// UpdateFunc mutates a view state in place. Returning an error aborts the update.
type UpdateFunc func(state *model.ViewState) error

// ViewStateStore keeps one ViewState per browser view.
type ViewStateStore interface {
	// Get returns the stored state or an apperrors NotFound error. A stored state that cannot
	// be decoded yields an error wrapping ErrCorruptViewState.
	Get(ctx context.Context, id string) (*model.ViewState, error)
	// Update applies fn atomically to the state stored under id. A missing state is passed to
	// fn as a fresh NewViewState. Implementations may call fn more than once on conflict, so
	// fn must not perform I/O.
	Update(ctx context.Context, id string, fn UpdateFunc) (*model.ViewState, error)
	// Delete removes the state; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
