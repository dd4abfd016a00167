package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/jobboard-ui/internal/adapters/memstore"
	"github.com/target/jobboard-ui/internal/core"
	"github.com/target/jobboard-ui/internal/domain/board"
	"github.com/target/jobboard-ui/internal/domain/model"
	apperrors "github.com/target/jobboard-ui/internal/errors"
	"github.com/target/jobboard-ui/internal/mocks"
	"github.com/target/jobboard-ui/internal/observability/statsd"
	"github.com/target/jobboard-ui/internal/testutil"
)

const viewID = "view-1"

type boardFixture struct {
	svc   *BoardService
	api   *mocks.MockJobsAPI
	store *memstore.Store
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockJobsAPI(ctrl)
	api.EXPECT().BaseURL().DoAndReturn(func() *url.URL {
		return &url.URL{Scheme: "http", Host: "api.test"}
	}).AnyTimes()

	store := memstore.New(memstore.Options{Now: testutil.FixedTimeFunc(testutil.TestTime())})
	svc, err := NewBoardService(BoardServiceOptions{
		API:   api,
		Store: store,
		Now:   testutil.FixedTimeFunc(testutil.TestTime()),
	})
	require.NoError(t, err)
	return &boardFixture{svc: svc, api: api, store: store}
}

func (f *boardFixture) seed(t *testing.T, mutate func(*model.ViewState)) {
	t.Helper()
	_, err := f.store.Update(context.Background(), viewID, func(s *model.ViewState) error {
		mutate(s)
		return nil
	})
	require.NoError(t, err)
}

func (f *boardFixture) stored(t *testing.T) *model.ViewState {
	t.Helper()
	s, err := f.store.Get(context.Background(), viewID)
	require.NoError(t, err)
	return s
}

func TestNewBoardService_RequiresDependencies(t *testing.T) {
	_, err := NewBoardService(BoardServiceOptions{})
	require.Error(t, err)

	ctrl := gomock.NewController(t)
	_, err = NewBoardService(BoardServiceOptions{API: mocks.NewMockJobsAPI(ctrl)})
	require.Error(t, err)
}

func TestBoardService_Mount(t *testing.T) {
	t.Run("resets filters and searches once", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Filter = model.FilterState{Skills: "rust", SalaryMin: "1"}
			s.UI.ExpandedJobID = "3"
		})

		f.api.EXPECT().ListJobs(gomock.Any(), url.Values{}).
			Return(&model.PageState{Items: testutil.Listings(2), Next: "http://api.test/api/jobs/?page=2"}, nil).
			Times(1)

		state, err := f.svc.Mount(context.Background(), viewID, url.Values{})
		require.NoError(t, err)
		assert.Equal(t, model.FilterState{}, state.Filter)
		assert.Len(t, state.Page.Items, 2)
		assert.False(t, state.UI.Loading)
		assert.Empty(t, state.UI.ExpandedJobID)
		assert.Empty(t, state.UI.Notice)
	})

	t.Run("checkout return shows a one-time notice", func(t *testing.T) {
		f := newBoardFixture(t)
		f.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(&model.PageState{}, nil)

		state, err := f.svc.Mount(context.Background(), viewID, url.Values{"session_id": {"cs_abc"}})
		require.NoError(t, err)
		assert.Equal(t, board.CheckoutReturnNotice, state.UI.Notice)
		assert.Empty(t, f.stored(t).UI.Notice, "notice must not be persisted")
	})
}

func TestStripCheckoutReturn(t *testing.T) {
	u, err := url.Parse("/?session_id=cs_1&utm=x")
	require.NoError(t, err)

	out, stripped := StripCheckoutReturn(u)
	assert.True(t, stripped)
	assert.Equal(t, "/?utm=x", out.String())

	plain, err := url.Parse("/")
	require.NoError(t, err)
	out, stripped = StripCheckoutReturn(plain)
	assert.False(t, stripped)
	assert.Equal(t, "/", out.String())
}

func TestBoardService_UpdateFilter(t *testing.T) {
	f := newBoardFixture(t)

	state, err := f.svc.UpdateFilter(context.Background(), viewID, model.FilterState{
		Skills:    "go",
		Seniority: model.SeniorityMid,
		SalaryMin: "50000",
	})
	require.NoError(t, err)
	assert.Equal(t, "go", state.Filter.Skills)

	_, err = f.svc.UpdateFilter(context.Background(), viewID, model.FilterState{Seniority: "Wizard"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "go", f.stored(t).Filter.Skills)
}

func TestBoardService_Search(t *testing.T) {
	t.Run("sends only non-empty filters and replaces the page", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Filter = model.FilterState{Skills: "go", SalaryMin: ""}
			s.Page.Items = testutil.Listings(5)
			s.UI.ExpandedJobID = "2"
			s.UI.ScrapeMessage = "old message"
		})

		f.api.EXPECT().ListJobs(gomock.Any(), url.Values{"skills": {"go"}}).
			Return(&model.PageState{Items: testutil.Listings(1), TotalCount: 1}, nil)

		state, err := f.svc.Search(context.Background(), viewID)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 1)
		assert.Empty(t, state.UI.ExpandedJobID)
		assert.Empty(t, state.UI.ScrapeMessage)
		assert.False(t, state.UI.Loading)
	})

	t.Run("failure keeps stale listings and clears loading", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Page.Items = testutil.Listings(3)
		})

		f.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.RemoteStatus(502, "bad gateway"))

		state, err := f.svc.Search(context.Background(), viewID)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 3)
		assert.False(t, state.UI.Loading)
	})

	t.Run("stale response is discarded", func(t *testing.T) {
		f := newBoardFixture(t)
		ctx := context.Background()

		older := &model.PageState{Items: testutil.Listings(4)}
		newer := &model.PageState{Items: testutil.Listings(1)}

		first := f.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, url.Values) (*model.PageState, error) {
				// A second search is issued and completes while the first is in flight.
				_, err := f.svc.Search(ctx, viewID)
				require.NoError(t, err)
				return older, nil
			})
		f.api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(newer, nil).After(first)

		state, err := f.svc.Search(ctx, viewID)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 1, "older response must not overwrite newer state")
		assert.Equal(t, uint64(2), state.Generations.Fetch)
		assert.False(t, state.UI.Loading)
	})
}

func TestBoardService_GoToPage(t *testing.T) {
	t.Run("fetches exactly the cursor", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Filter.Skills = "ignored"
		})
		cursor := "http://api.test/api/jobs/?page=2&skills=go"

		f.api.EXPECT().FetchPage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *url.URL) (*model.PageState, error) {
				assert.Equal(t, cursor, u.String())
				return &model.PageState{Items: testutil.Listings(2), Previous: "http://api.test/api/jobs/?skills=go"}, nil
			})

		state, err := f.svc.GoToPage(context.Background(), viewID, cursor)
		require.NoError(t, err)
		assert.True(t, state.Page.HasPrevious())
		assert.False(t, state.Page.HasNext())
	})

	t.Run("foreign cursor is rejected without a request", func(t *testing.T) {
		f := newBoardFixture(t)

		_, err := f.svc.GoToPage(context.Background(), viewID, "https://elsewhere.test/api/jobs/?page=2")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("configured cursor host is followed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mocks.NewMockJobsAPI(ctrl)
		api.EXPECT().BaseURL().Return(&url.URL{Scheme: "http", Host: "127.0.0.1:8000"}).AnyTimes()
		svc, err := NewBoardService(BoardServiceOptions{
			API:         api,
			Store:       memstore.New(memstore.Options{}),
			CursorHosts: []string{"localhost:8000"},
		})
		require.NoError(t, err)

		cursor := "http://localhost:8000/api/jobs/?page=2"
		api.EXPECT().FetchPage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *url.URL) (*model.PageState, error) {
				assert.Equal(t, cursor, u.String())
				return &model.PageState{Items: testutil.Listings(2)}, nil
			})

		state, err := svc.GoToPage(context.Background(), viewID, cursor)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 2)
	})
}

func TestBoardService_Page(t *testing.T) {
	t.Run("absent cursor is a no-op", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Page.Items = testutil.Listings(1)
		})

		state, err := f.svc.Page(context.Background(), viewID, board.DirectionNext)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 1)

		state, err = f.svc.Page(context.Background(), viewID, board.DirectionPrevious)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 1)
	})

	t.Run("follows the stored cursor", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) {
			s.Page.Next = "http://api.test/api/jobs/?page=3"
		})

		f.api.EXPECT().FetchPage(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *url.URL) (*model.PageState, error) {
				assert.Equal(t, "3", u.Query().Get("page"))
				return &model.PageState{Items: testutil.Listings(3)}, nil
			})

		state, err := f.svc.Page(context.Background(), viewID, board.DirectionNext)
		require.NoError(t, err)
		assert.Len(t, state.Page.Items, 3)
	})

	t.Run("unknown direction", func(t *testing.T) {
		f := newBoardFixture(t)
		_, err := f.svc.Page(context.Background(), viewID, board.Direction("up"))
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestBoardService_ToggleExpand(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	state, err := f.svc.ToggleExpand(ctx, viewID, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", state.UI.ExpandedJobID)

	state, err = f.svc.ToggleExpand(ctx, viewID, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", state.UI.ExpandedJobID)

	state, err = f.svc.ToggleExpand(ctx, viewID, "b")
	require.NoError(t, err)
	assert.Empty(t, state.UI.ExpandedJobID)

	_, err = f.svc.ToggleExpand(ctx, viewID, " ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestBoardService_TriggerScrape(t *testing.T) {
	t.Run("defaults keyword and location", func(t *testing.T) {
		f := newBoardFixture(t)

		f.api.EXPECT().TriggerScrape(gomock.Any(), model.ScrapeRequest{Keyword: "Python", Location: "Europe"}).
			Return(&model.ScrapeResponse{Message: "Scraping started.", Note: "Check back in a few minutes."}, nil)

		state, err := f.svc.TriggerScrape(context.Background(), viewID)
		require.NoError(t, err)
		assert.False(t, state.UI.ScrapeInFlight)
		assert.Equal(t, "Scraping started. Check back in a few minutes.", state.UI.ScrapeMessage)
	})

	t.Run("uses the skills filter as keyword and does not search", func(t *testing.T) {
		f := newBoardFixture(t)
		f.seed(t, func(s *model.ViewState) { s.Filter.Skills = "golang" })

		f.api.EXPECT().TriggerScrape(gomock.Any(), model.ScrapeRequest{Keyword: "golang", Location: "Europe"}).
			Return(&model.ScrapeResponse{Message: "ok"}, nil)

		state, err := f.svc.TriggerScrape(context.Background(), viewID)
		require.NoError(t, err)
		assert.Equal(t, "ok", state.UI.ScrapeMessage)
	})

	t.Run("failure shows the fallback message", func(t *testing.T) {
		f := newBoardFixture(t)

		f.api.EXPECT().TriggerScrape(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.Wrap(errors.New("dial tcp: refused"), apperrors.ErrCodeTransport, "scrape"))

		state, err := f.svc.TriggerScrape(context.Background(), viewID)
		require.NoError(t, err)
		assert.False(t, state.UI.ScrapeInFlight)
		assert.Equal(t, board.ScrapeFailedMessage, state.UI.ScrapeMessage)
	})
}

func TestBoardService_StartCheckout(t *testing.T) {
	tests := []struct {
		name     string
		session  *model.CheckoutSession
		err      error
		redirect string
		alert    string
	}{
		{
			name:     "redirect",
			session:  &model.CheckoutSession{URL: "https://checkout.example.com/c/pay/cs_1"},
			redirect: "https://checkout.example.com/c/pay/cs_1",
		},
		{
			name:    "missing url",
			session: &model.CheckoutSession{},
			alert:   board.CheckoutNoURLMessage,
		},
		{
			name:    "non http url",
			session: &model.CheckoutSession{URL: "javascript:alert(1)"},
			alert:   board.CheckoutNoURLMessage,
		},
		{
			name:  "transport failure",
			err:   apperrors.Wrap(errors.New("connection reset"), apperrors.ErrCodeTransport, "checkout"),
			alert: board.CheckoutUnavailableMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBoardFixture(t)
			f.api.EXPECT().CreateCheckoutSession(gomock.Any()).Return(tt.session, tt.err)

			outcome, err := f.svc.StartCheckout(context.Background(), viewID)
			require.NoError(t, err)
			assert.Equal(t, tt.redirect, outcome.RedirectURL)
			assert.Equal(t, tt.alert, outcome.Alert)
			assert.False(t, f.stored(t).UI.PaymentInFlight)
		})
	}
}

func TestBoardService_StartCheckout_SupersededResponseIsDropped(t *testing.T) {
	f := newBoardFixture(t)
	ctx := context.Background()

	var newer model.CheckoutOutcome
	first := f.api.EXPECT().CreateCheckoutSession(gomock.Any()).
		DoAndReturn(func(context.Context) (*model.CheckoutSession, error) {
			var err error
			newer, err = f.svc.StartCheckout(ctx, viewID)
			require.NoError(t, err)
			return &model.CheckoutSession{URL: "https://checkout.example.com/old"}, nil
		})
	f.api.EXPECT().CreateCheckoutSession(gomock.Any()).
		Return(&model.CheckoutSession{URL: "https://checkout.example.com/new"}, nil).After(first)

	older, err := f.svc.StartCheckout(ctx, viewID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutOutcome{}, older)
	assert.Equal(t, "https://checkout.example.com/new", newer.RedirectURL)
}

func TestBoardService_StoreErrorsPropagate(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockJobsAPI(ctrl)
	store := mocks.NewMockViewStateStore(ctrl)
	storeErr := errors.New("redis down")
	store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).Return(nil, storeErr)

	svc, err := NewBoardService(BoardServiceOptions{API: api, Store: store})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), viewID)
	require.ErrorIs(t, err, storeErr)
}

func corruptErr() error {
	return fmt.Errorf("%w: unexpected end of JSON input", core.ErrCorruptViewState)
}

func TestBoardService_DiscardsUnreadableState(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockViewStateStore(ctrl)
		backing := memstore.New(memstore.Options{})
		gomock.InOrder(
			store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).Return(nil, corruptErr()),
			store.EXPECT().Delete(gomock.Any(), viewID).Return(nil),
			store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).DoAndReturn(backing.Update),
		)
		svc, err := NewBoardService(BoardServiceOptions{API: mocks.NewMockJobsAPI(ctrl), Store: store})
		require.NoError(t, err)

		state, err := svc.UpdateFilter(context.Background(), viewID, model.FilterState{Skills: "go"})
		require.NoError(t, err)
		assert.Equal(t, "go", state.Filter.Skills)
	})

	t.Run("state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockViewStateStore(ctrl)
		backing := memstore.New(memstore.Options{})
		gomock.InOrder(
			store.EXPECT().Get(gomock.Any(), viewID).Return(nil, corruptErr()),
			store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).Return(nil, corruptErr()),
			store.EXPECT().Delete(gomock.Any(), viewID).Return(nil),
			store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).DoAndReturn(backing.Update),
		)
		svc, err := NewBoardService(BoardServiceOptions{API: mocks.NewMockJobsAPI(ctrl), Store: store})
		require.NoError(t, err)

		state, err := svc.State(context.Background(), viewID)
		require.NoError(t, err)
		assert.Equal(t, viewID, state.ID)
	})

	t.Run("delete failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockViewStateStore(ctrl)
		deleteErr := errors.New("redis down")
		store.EXPECT().Update(gomock.Any(), viewID, gomock.Any()).Return(nil, corruptErr())
		store.EXPECT().Delete(gomock.Any(), viewID).Return(deleteErr)
		svc, err := NewBoardService(BoardServiceOptions{API: mocks.NewMockJobsAPI(ctrl), Store: store})
		require.NoError(t, err)

		_, err = svc.ToggleExpand(context.Background(), viewID, "3")
		require.ErrorIs(t, err, deleteErr)
	})
}

type countingSink struct {
	counts []statsd.Tags
}

func (c *countingSink) Count(_ string, _ int64, tags statsd.Tags) { c.counts = append(c.counts, tags) }

func (c *countingSink) Timing(string, time.Duration, statsd.Tags) {}

func TestBoardService_RecordsRemoteCallMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockJobsAPI(ctrl)
	sink := &countingSink{}
	svc, err := NewBoardService(BoardServiceOptions{
		API:     api,
		Store:   memstore.New(memstore.Options{}),
		Metrics: sink,
	})
	require.NoError(t, err)

	api.EXPECT().TriggerScrape(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.RemoteStatus(503, "unavailable"))
	api.EXPECT().CreateCheckoutSession(gomock.Any()).
		Return(&model.CheckoutSession{URL: "https://checkout.example.com/c"}, nil)

	_, err = svc.TriggerScrape(context.Background(), viewID)
	require.NoError(t, err)
	_, err = svc.StartCheckout(context.Background(), viewID)
	require.NoError(t, err)

	require.Len(t, sink.counts, 2)
	assert.Equal(t, statsd.Tags{"call": "trigger_scrape", "result": "error", "error_class": "transport"}, sink.counts[0])
	assert.Equal(t, statsd.Tags{"call": "create_checkout", "result": "success"}, sink.counts[1])
}

// retryingStore runs every update against a conflicting writer's state first, the way the
// Redis store re-runs an UpdateFunc after a WATCH conflict, then applies it for real.
type retryingStore struct {
	*memstore.Store
}

func (r retryingStore) Update(ctx context.Context, id string, fn core.UpdateFunc) (*model.ViewState, error) {
	conflicting := model.NewViewState(id, testutil.TestTime())
	conflicting.Generations = model.Generations{Fetch: 99, Scrape: 99, Payment: 99}
	_ = fn(conflicting)
	return r.Store.Update(ctx, id, fn)
}

func TestBoardService_RetriedUpdatesReportAppliedResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockJobsAPI(ctrl)
	sink := &countingSink{}
	svc, err := NewBoardService(BoardServiceOptions{
		API:     api,
		Store:   retryingStore{memstore.New(memstore.Options{})},
		Metrics: sink,
	})
	require.NoError(t, err)

	api.EXPECT().ListJobs(gomock.Any(), gomock.Any()).Return(&model.PageState{Items: testutil.Listings(2)}, nil)
	api.EXPECT().TriggerScrape(gomock.Any(), gomock.Any()).Return(&model.ScrapeResponse{Message: "started"}, nil)
	api.EXPECT().CreateCheckoutSession(gomock.Any()).
		Return(&model.CheckoutSession{URL: "https://checkout.example.com/c"}, nil)

	state, err := svc.Search(context.Background(), viewID)
	require.NoError(t, err)
	assert.Len(t, state.Page.Items, 2)
	_, err = svc.TriggerScrape(context.Background(), viewID)
	require.NoError(t, err)
	outcome, err := svc.StartCheckout(context.Background(), viewID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/c", outcome.RedirectURL)

	require.Len(t, sink.counts, 3)
	for _, tags := range sink.counts {
		assert.Equal(t, "success", tags["result"], "call %s", tags["call"])
	}
}
