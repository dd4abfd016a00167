package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/jobboard-ui/internal/domain/board"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
	"github.com/target/jobboard-ui/internal/http/ui/viewmodel"
	"github.com/target/jobboard-ui/internal/http/validation"
	"github.com/target/jobboard-ui/internal/service"
)

// Partial templates swapped by htmx.
const (
	tmplBoardResults = "board-results"
	tmplEmptyState   = "empty-state"
)

// BoardController is the view-state controller behind the board routes.
type BoardController interface {
	State(ctx context.Context, viewID string) (*model.ViewState, error)
	Mount(ctx context.Context, viewID string, query url.Values) (*model.ViewState, error)
	UpdateFilter(ctx context.Context, viewID string, filter model.FilterState) (*model.ViewState, error)
	Search(ctx context.Context, viewID string) (*model.ViewState, error)
	Page(ctx context.Context, viewID string, dir board.Direction) (*model.ViewState, error)
	ToggleExpand(ctx context.Context, viewID, jobID string) (*model.ViewState, error)
	TriggerScrape(ctx context.Context, viewID string) (*model.ViewState, error)
	StartCheckout(ctx context.Context, viewID string) (model.CheckoutOutcome, error)
}

var _ BoardController = (*service.BoardService)(nil)

// BoardHandlers serves the job board page and its htmx actions.
type BoardHandlers struct {
	Svc    BoardController
	T      *TemplateRenderer
	Now    func() time.Time
	IsDev  bool
	Logger *slog.Logger
}

// filterForm is the filter bar as posted by the browser.
type filterForm struct {
	Skills    string `form:"skills"     validate:"max=200"`
	Seniority string `form:"seniority"  validate:"omitempty,oneof=Junior Mid-Level Senior Lead"`
	SalaryMin string `form:"salary_min" validate:"max=32"`
}

// decodeFilterForm reads the filter fields. ok is false when the request carries none of them.
func decodeFilterForm(r *http.Request) (model.FilterState, bool, error) {
	if err := r.ParseForm(); err != nil {
		return model.FilterState{}, false, apperrors.Validation("malformed form body")
	}
	form := r.PostForm
	if !form.Has("skills") && !form.Has("seniority") && !form.Has("salary_min") {
		return model.FilterState{}, false, nil
	}

	f := filterForm{
		Skills:    strings.TrimSpace(form.Get("skills")),
		Seniority: strings.TrimSpace(form.Get("seniority")),
		SalaryMin: strings.TrimSpace(form.Get("salary_min")),
	}
	if errs := validation.Struct(&f); errs != nil {
		for _, field := range []string{"seniority", "skills", "salary_min"} {
			if msg, found := errs[field]; found {
				return model.FilterState{}, false, apperrors.ValidationField(field, msg)
			}
		}
	}
	return model.FilterState{
		Skills:    f.Skills,
		Seniority: model.Seniority(f.Seniority),
		SalaryMin: f.SalaryMin,
	}, true, nil
}

func (h *BoardHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *BoardHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	RenderError(ErrorOpts{W: w, R: r, Err: err, Renderer: h.T, Logger: h.Logger})
}

func viewID(r *http.Request) string {
	id, _ := GetViewIDFromContext(r.Context())
	return id
}

func (h *BoardHandlers) boardModel(r *http.Request, state *model.ViewState) *viewmodel.Board {
	vm := viewmodel.NewBoard(state, h.now())
	vm.CSRFToken = GetCSRFToken(r)
	vm.DevMode = h.IsDev
	return vm
}

// render writes the results fragment for htmx and the whole page otherwise.
func (h *BoardHandlers) render(w http.ResponseWriter, r *http.Request, partial string, vm *viewmodel.Board) {
	var err error
	if WantsPartial(r) {
		err = h.T.Render(w, partial, vm)
	} else {
		err = h.T.RenderFull(w, vm)
	}
	if err != nil {
		h.fail(w, r, apperrors.Wrap(err, apperrors.ErrCodeInternal, "render board"))
	}
}

// Page handles GET /: the view is reset and the initial search runs. A return from the
// checkout provider shows a one-time notice and the marker is dropped from the address bar.
func (h *BoardHandlers) Page(w http.ResponseWriter, r *http.Request) {
	state, err := h.Svc.Mount(r.Context(), viewID(r), r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	vm := h.boardModel(r, state)
	if stripped, ok := service.StripCheckoutReturn(r.URL); ok {
		vm.CanonicalURL = stripped.RequestURI()
		if IsHTMX(r) {
			SetHXReplaceURL(w, vm.CanonicalURL)
		}
	}
	h.render(w, r, tmplBoardResults, vm)
}

// UpdateFilters handles POST /board/filters: the inputs are stored without searching.
func (h *BoardHandlers) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	filter, ok, err := decodeFilterForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ok {
		if _, err := h.Svc.UpdateFilter(r.Context(), viewID(r), filter); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /board/search. Filter fields posted with the search are stored first
// so a search never runs against inputs the browser has not synced yet.
func (h *BoardHandlers) Search(w http.ResponseWriter, r *http.Request) {
	filter, ok, err := decodeFilterForm(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if ok {
		if _, err := h.Svc.UpdateFilter(r.Context(), viewID(r), filter); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	state, err := h.Svc.Search(r.Context(), viewID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, tmplBoardResults, h.boardModel(r, state))
}

// Paginate handles POST /board/page/{direction}.
func (h *BoardHandlers) Paginate(w http.ResponseWriter, r *http.Request) {
	dir, err := board.ParseDirection(r.PathValue("direction"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state, err := h.Svc.Page(r.Context(), viewID(r), dir)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, tmplBoardResults, h.boardModel(r, state))
}

// Toggle handles POST /board/jobs/{id}/toggle.
func (h *BoardHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	state, err := h.Svc.ToggleExpand(r.Context(), viewID(r), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, tmplBoardResults, h.boardModel(r, state))
}

// Scrape handles POST /board/scrape. Only the empty state is re-rendered; the listing is
// not searched again.
func (h *BoardHandlers) Scrape(w http.ResponseWriter, r *http.Request) {
	state, err := h.Svc.TriggerScrape(r.Context(), viewID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, tmplEmptyState, h.boardModel(r, state))
}

// Checkout handles POST /board/checkout. A session URL becomes a full browser navigation;
// a failure becomes a blocking alert.
func (h *BoardHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Svc.StartCheckout(r.Context(), viewID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch {
	case outcome.RedirectURL != "":
		if IsHTMX(r) {
			HTMX(w).Redirect(outcome.RedirectURL)
			return
		}
		http.Redirect(w, r, outcome.RedirectURL, http.StatusSeeOther)
	case outcome.Alert != "":
		if IsHTMX(r) {
			HTMX(w).Alert(outcome.Alert).NoSwap()
			return
		}
		state, err := h.Svc.State(r.Context(), viewID(r))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		vm := h.boardModel(r, state)
		vm.Alert = outcome.Alert
		h.render(w, r, tmplBoardResults, vm)
	default:
		// Superseded by a newer checkout request.
		if IsHTMX(r) {
			HTMX(w).NoSwap()
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// NotFound renders the 404 page for unknown routes.
func (h *BoardHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, apperrors.NotFound("route not found"))
}
