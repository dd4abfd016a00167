package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/jobboard-ui/internal/adapters/memstore"
	"github.com/target/jobboard-ui/internal/domain/board"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
	"github.com/target/jobboard-ui/internal/mocks"
	"github.com/target/jobboard-ui/internal/service"
	"github.com/target/jobboard-ui/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

type boardHarness struct {
	handler http.Handler
	api     *mocks.MockJobsAPI
	store   *memstore.Store
	viewID  string
}

func newBoardHarness(t *testing.T) *boardHarness {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockJobsAPI(ctrl)
	api.EXPECT().BaseURL().DoAndReturn(func() *url.URL {
		return &url.URL{Scheme: "http", Host: "api.test"}
	}).AnyTimes()

	now := testutil.FixedTimeFunc(testutil.TestTime())
	store := memstore.New(memstore.Options{Now: now})
	svc, err := service.NewBoardService(service.BoardServiceOptions{
		API:    api,
		Store:  store,
		Now:    now,
		Logger: slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	handler, err := NewRouter(RouterServices{
		Board:      svc,
		Now:        now,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS(StaticPathFromTest),
		Logger:     slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	return &boardHarness{handler: handler, api: api, store: store, viewID: uuid.NewString()}
}

func (h *boardHarness) seed(t *testing.T, mutate func(*model.ViewState)) {
	t.Helper()
	_, err := h.store.Update(context.Background(), h.viewID, func(s *model.ViewState) error {
		mutate(s)
		return nil
	})
	require.NoError(t, err)
}

func (h *boardHarness) stored(t *testing.T) *model.ViewState {
	t.Helper()
	s, err := h.store.Get(context.Background(), h.viewID)
	require.NoError(t, err)
	return s
}

type reqOpt func(*http.Request)

func asHTMX(r *http.Request) { r.Header.Set("Hx-Request", "true") }

func withForm(vals url.Values) reqOpt {
	return func(r *http.Request) {
		body := vals.Encode()
		r.Body = io.NopCloser(strings.NewReader(body))
		r.ContentLength = int64(len(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
}

// do sends a request as a returning browser: view cookie, CSRF cookie and header.
func (h *boardHarness) do(method, target string, opts ...reqOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: ViewCookieName, Value: h.viewID})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestBoardPage_FullRender(t *testing.T) {
	h := newBoardHarness(t)
	h.api.EXPECT().ListJobs(gomock.Any(), url.Values{}).
		Return(&model.PageState{Items: testutil.Listings(2), TotalCount: 1200}, nil)

	rec := h.do(http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Remote Jobs Board")
	assert.Contains(t, body, "Backend Engineer 1")
	assert.Contains(t, body, "Acme • Remote")
	assert.Contains(t, body, "Apply Now ↗")
	assert.Contains(t, body, "Showing 2 of 1,200 jobs")
	assert.Contains(t, body, `placeholder="Skill (e.g. Python)"`)
	assert.Contains(t, body, `hx-post="/board/filters" hx-trigger="keyup changed delay:300ms, change"`)
	assert.Contains(t, body, testCSRFToken)
	assert.NotContains(t, body, "data-canonical-url")
}

func TestBoardPage_NewVisitorGetsViewCookie(t *testing.T) {
	h := newBoardHarness(t)
	h.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(&model.PageState{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var viewCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == ViewCookieName {
			viewCookie = c
		}
	}
	require.NotNil(t, viewCookie)
	_, err := uuid.Parse(viewCookie.Value)
	assert.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "No jobs found matching your criteria.")
}

func TestBoardPage_CheckoutReturn(t *testing.T) {
	t.Run("full page", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().ListJobs(gomock.Any(), url.Values{}).Return(&model.PageState{}, nil)

		rec := h.do(http.MethodGet, "/?session_id=cs_1")

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, board.CheckoutReturnNotice)
		assert.Contains(t, body, `data-canonical-url="/"`)
	})

	t.Run("htmx replaces the url", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(&model.PageState{}, nil)

		rec := h.do(http.MethodGet, "/?session_id=cs_1&ref=mail", asHTMX)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/?ref=mail", rec.Header().Get("Hx-Replace-Url"))
		assert.NotContains(t, rec.Body.String(), "<!doctype html>")
	})
}

func TestBoardSearch(t *testing.T) {
	t.Run("stores posted filters then searches", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().ListJobs(gomock.Any(), url.Values{"skills": {"Go"}, "seniority": {"Senior"}}).
			Return(&model.PageState{Items: testutil.Listings(1), TotalCount: 1}, nil)

		rec := h.do(http.MethodPost, "/board/search", asHTMX, withForm(url.Values{
			"skills":     {" Go "},
			"seniority":  {"Senior"},
			"salary_min": {""},
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.NotContains(t, body, "<!doctype html>")
		assert.Contains(t, body, "Showing 1 of 1 job")
		assert.Equal(t, "Go", h.stored(t).Filter.Skills)
	})

	t.Run("rejects unknown seniority", func(t *testing.T) {
		h := newBoardHarness(t)

		rec := h.do(http.MethodPost, "/board/search", asHTMX, withForm(url.Values{"seniority": {"Wizard"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), EventShowAlert)
		assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	})

	t.Run("upstream failure keeps listing", func(t *testing.T) {
		h := newBoardHarness(t)
		h.seed(t, func(s *model.ViewState) {
			s.Page = model.PageState{Items: testutil.Listings(3), TotalCount: 3}
		})
		h.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.RemoteStatus(http.StatusBadGateway, "bad gateway"))

		rec := h.do(http.MethodPost, "/board/search", asHTMX, withForm(nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Backend Engineer 3")
	})
}

func TestBoardUpdateFilters(t *testing.T) {
	h := newBoardHarness(t)

	rec := h.do(http.MethodPost, "/board/filters", asHTMX, withForm(url.Values{
		"skills":     {"rust"},
		"salary_min": {"50000"},
	}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	stored := h.stored(t)
	assert.Equal(t, "rust", stored.Filter.Skills)
	assert.Equal(t, "50000", stored.Filter.SalaryMin)
}

func TestBoardPaginate(t *testing.T) {
	t.Run("follows the stored next cursor", func(t *testing.T) {
		h := newBoardHarness(t)
		h.seed(t, func(s *model.ViewState) {
			s.Filter.Skills = "ignored"
			s.Page = model.PageState{Items: testutil.Listings(1), Next: "http://api.test/api/jobs/?page=2"}
		})
		h.api.EXPECT().FetchPage(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cursor *url.URL) (*model.PageState, error) {
				assert.Equal(t, "http://api.test/api/jobs/?page=2", cursor.String())
				return &model.PageState{
					Items:    []model.JobListing{testutil.NewListing("21").Build()},
					Previous: "http://api.test/api/jobs/",
				}, nil
			})

		rec := h.do(http.MethodPost, "/board/page/next", asHTMX)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Backend Engineer 21")
		assert.Contains(t, body, "Previous")
	})

	t.Run("unknown direction", func(t *testing.T) {
		h := newBoardHarness(t)

		rec := h.do(http.MethodPost, "/board/page/sideways", asHTMX)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestBoardToggle(t *testing.T) {
	h := newBoardHarness(t)
	h.seed(t, func(s *model.ViewState) {
		s.Page = model.PageState{Items: testutil.Listings(2), TotalCount: 2}
	})

	rec := h.do(http.MethodPost, "/board/jobs/2/toggle", asHTMX)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Build the platform.")
	assert.Equal(t, "2", h.stored(t).UI.ExpandedJobID)

	rec = h.do(http.MethodPost, "/board/jobs/2/toggle", asHTMX)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Build the platform.")
	assert.Empty(t, h.stored(t).UI.ExpandedJobID)
}

func TestBoardScrape(t *testing.T) {
	tests := []struct {
		name    string
		resp    *model.ScrapeResponse
		err     error
		message string
	}{
		{
			name:    "server message",
			resp:    &model.ScrapeResponse{Message: "Scraper started for Python.", Note: "Check back soon."},
			message: "Scraper started for Python. Check back soon.",
		},
		{
			name:    "network failure",
			err:     errors.New("connection refused"),
			message: board.ScrapeFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newBoardHarness(t)
			h.api.EXPECT().TriggerScrape(gomock.Any(), model.ScrapeRequest{Keyword: "Python", Location: "Europe"}).
				Return(tt.resp, tt.err)

			rec := h.do(http.MethodPost, "/board/scrape", asHTMX)

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `id="empty-state"`)
			assert.Contains(t, body, tt.message)
			assert.Contains(t, body, "Start Live Scraper")
		})
	}
}

func TestBoardCheckout(t *testing.T) {
	t.Run("htmx redirect", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().CreateCheckoutSession(gomock.Any()).
			Return(&model.CheckoutSession{URL: "https://pay.example/sess_1"}, nil)

		rec := h.do(http.MethodPost, "/board/checkout", asHTMX)

		assert.Equal(t, "https://pay.example/sess_1", rec.Header().Get("Hx-Redirect"))
		assert.False(t, h.stored(t).UI.PaymentInFlight)
	})

	t.Run("form post redirect", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().CreateCheckoutSession(gomock.Any()).
			Return(&model.CheckoutSession{URL: "https://pay.example/sess_1"}, nil)

		rec := h.do(http.MethodPost, "/board/checkout", withForm(url.Values{"csrf_token": {testCSRFToken}}))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "https://pay.example/sess_1", rec.Header().Get("Location"))
	})

	t.Run("htmx alert without url", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().CreateCheckoutSession(gomock.Any()).Return(&model.CheckoutSession{}, nil)

		rec := h.do(http.MethodPost, "/board/checkout", asHTMX)

		assert.Empty(t, rec.Header().Get("Hx-Redirect"))
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), board.CheckoutNoURLMessage)
		assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	})

	t.Run("form post alert re-renders the page", func(t *testing.T) {
		h := newBoardHarness(t)
		h.api.EXPECT().CreateCheckoutSession(gomock.Any()).Return(nil, errors.New("dial tcp: refused"))

		rec := h.do(http.MethodPost, "/board/checkout", withForm(url.Values{"csrf_token": {testCSRFToken}}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-alert="`+board.CheckoutUnavailableMessage+`"`)
	})

	t.Run("superseded checkout", func(t *testing.T) {
		tests := []struct {
			name     string
			opts     []reqOpt
			wantCode int
			wantLoc  string
			wantSwap string
		}{
			{name: "htmx keeps the page", opts: []reqOpt{asHTMX}, wantCode: http.StatusNoContent, wantSwap: "none"},
			{
				name:     "form post returns to the board",
				opts:     []reqOpt{withForm(url.Values{"csrf_token": {testCSRFToken}})},
				wantCode: http.StatusSeeOther,
				wantLoc:  "/",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newBoardHarness(t)
				first := h.api.EXPECT().CreateCheckoutSession(gomock.Any()).
					DoAndReturn(func(context.Context) (*model.CheckoutSession, error) {
						newer := h.do(http.MethodPost, "/board/checkout", asHTMX)
						assert.Equal(t, "https://pay.example/newer", newer.Header().Get("Hx-Redirect"))
						return &model.CheckoutSession{URL: "https://pay.example/older"}, nil
					})
				h.api.EXPECT().CreateCheckoutSession(gomock.Any()).
					Return(&model.CheckoutSession{URL: "https://pay.example/newer"}, nil).After(first)

				rec := h.do(http.MethodPost, "/board/checkout", tt.opts...)

				assert.Equal(t, tt.wantCode, rec.Code)
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
				assert.Equal(t, tt.wantSwap, rec.Header().Get("Hx-Reswap"))
				assert.Empty(t, rec.Header().Get("Hx-Redirect"))
			})
		}
	})
}

func TestBoardRoutes_CSRF(t *testing.T) {
	h := newBoardHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/board/scrape", nil)
	req.AddCookie(&http.Cookie{Name: ViewCookieName, Value: h.viewID})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	req.Header.Set(DefaultCSRFHeaderName, "forged")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBoardRoutes_NotFound(t *testing.T) {
	h := newBoardHarness(t)

	rec := h.do(http.MethodGet, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The page you are looking for does not exist.")
}

func TestRouter_StaticAndHealth(t *testing.T) {
	h := newBoardHarness(t)

	rec := h.do(http.MethodGet, "/static/css/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = h.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_RequiresBoard(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	assert.Error(t, err)
}
