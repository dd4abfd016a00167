package viewmodel

import (
	"time"

	"github.com/gosimple/slug"

	"github.com/target/jobboard-ui/internal/domain/board"
	"github.com/target/jobboard-ui/internal/domain/model"
)

// SeniorityOption is one entry of the seniority select.
type SeniorityOption struct {
	Value    string
	Label    string
	Selected bool
}

// Filter is the filter bar as rendered, echoing the raw inputs.
type Filter struct {
	Skills    string
	Seniority string
	SalaryMin string
	Options   []SeniorityOption
	Errors    map[string]string
}

// Listing is one job card.
type Listing struct {
	ID           string
	DOMID        string
	Title        string
	Company      string
	Location     string
	Source       string
	Age          string
	PostedAt     *time.Time
	Seniority    string
	Salary       string
	Skills       []string
	HiddenSkills int
	URL          string
	Expanded     bool
	Paragraphs   []string
}

// Scrape is the empty-state scraper call-to-action.
type Scrape struct {
	InFlight bool
	Message  string
}

// Board is the page model for the job board.
type Board struct {
	Layout
	Filter          Filter
	Listings        []Listing
	Pagination      Pagination
	Loading         bool
	Empty           bool
	Scrape          Scrape
	PaymentInFlight bool
}

// LayoutData implements LayoutProvider.
func (b *Board) LayoutData() *Layout { return &b.Layout }

// NewBoard projects a view state into the board page model. now anchors relative ages.
func NewBoard(state *model.ViewState, now time.Time) *Board {
	if state == nil {
		state = model.NewViewState("", now)
	}

	vm := &Board{
		Layout: Layout{Title: "Remote Jobs Board", Notice: state.UI.Notice},
		Filter: NewFilter(state.Filter),
		Pagination: Pagination{
			HasPrev:    state.Page.HasPrevious(),
			HasNext:    state.Page.HasNext(),
			TotalCount: state.Page.TotalCount,
			Shown:      len(state.Page.Items),
		},
		Loading:         state.UI.Loading,
		Empty:           state.Page.IsEmpty(),
		Scrape:          Scrape{InFlight: state.UI.ScrapeInFlight, Message: state.UI.ScrapeMessage},
		PaymentInFlight: state.UI.PaymentInFlight,
	}

	vm.Listings = make([]Listing, 0, len(state.Page.Items))
	for i := range state.Page.Items {
		vm.Listings = append(vm.Listings, NewListing(&state.Page.Items[i], state.UI.ExpandedJobID, now))
	}
	return vm
}

// NewFilter echoes the filter inputs and marks the selected seniority.
func NewFilter(f model.FilterState) Filter {
	opts := make([]SeniorityOption, 0, len(model.SeniorityOptions())+1)
	for _, s := range append([]model.Seniority{model.SeniorityAny}, model.SeniorityOptions()...) {
		opts = append(opts, SeniorityOption{
			Value:    string(s),
			Label:    s.Label(),
			Selected: s == f.Seniority,
		})
	}
	return Filter{
		Skills:    f.Skills,
		Seniority: string(f.Seniority),
		SalaryMin: f.SalaryMin,
		Options:   opts,
	}
}

// NewListing builds a job card. The description is only parsed for the expanded listing.
func NewListing(j *model.JobListing, expandedID string, now time.Time) Listing {
	posted := j.PostedTime()
	skills := board.VisibleSkills(j.Skills)
	l := Listing{
		ID:           j.Key(),
		DOMID:        DOMID(j.Key()),
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Source:       j.Source,
		Age:          board.RelativeAge(now, posted),
		PostedAt:     posted,
		Seniority:    board.SeniorityBadge(*j),
		Salary:       board.SalaryBadge(*j),
		Skills:       skills,
		HiddenSkills: len(j.Skills) - len(skills),
		URL:          j.URL,
		Expanded:     expandedID != "" && j.Key() == expandedID,
	}
	if l.Expanded {
		l.Paragraphs = board.DescriptionParagraphs(j.Description)
	}
	return l
}

// DOMID returns an element id for a listing that is safe in CSS selectors and htmx targets.
func DOMID(id string) string {
	s := slug.Make(id)
	if s == "" {
		s = "unknown"
	}
	return "job-" + s
}
