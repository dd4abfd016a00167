package model

import "time"

// UIState is the presentational part of a view. ExpandedJobID holds at most one id.
// The three in-flight flags are independent of each other.
type UIState struct {
	Loading         bool   `json:"loading"`
	ExpandedJobID   string `json:"expanded_job_id,omitempty"`
	ScrapeInFlight  bool   `json:"scrape_in_flight"`
	ScrapeMessage   string `json:"scrape_message,omitempty"`
	PaymentInFlight bool   `json:"payment_in_flight"`
	// Notice is a one-time confirmation shown after returning from checkout.
	Notice string `json:"notice,omitempty"`
}

// Generations count the requests issued per kind. A response is applied only when the
// generation it was issued under is still current, so stale responses are dropped.
type Generations struct {
	Fetch   uint64 `json:"fetch"`
	Scrape  uint64 `json:"scrape"`
	Payment uint64 `json:"payment"`
}

// ViewState is the complete, serializable state of one job board view.
type ViewState struct {
	ID          string      `json:"id"`
	Filter      FilterState `json:"filter"`
	Page        PageState   `json:"page"`
	UI          UIState     `json:"ui"`
	Generations Generations `json:"generations"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewViewState returns the initial state for a freshly mounted view: empty filters, no listings.
func NewViewState(id string, now time.Time) *ViewState {
	return &ViewState{
		ID:        id,
		UpdatedAt: now,
	}
}

// Reset returns the view to its initial state while keeping its identity and generation
// counters, so responses to requests issued before the reset are still recognized as stale.
func (v *ViewState) Reset(now time.Time) {
	gens := v.Generations
	*v = ViewState{
		ID:          v.ID,
		Generations: gens,
		UpdatedAt:   now,
	}
}

// ExpandedListing returns the currently expanded listing, if it is on the current page.
func (v *ViewState) ExpandedListing() *JobListing {
	if v == nil || v.UI.ExpandedJobID == "" {
		return nil
	}
	for i := range v.Page.Items {
		if v.Page.Items[i].Key() == v.UI.ExpandedJobID {
			return &v.Page.Items[i]
		}
	}
	return nil
}
