package browse

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbmrq/globe/internal/api"
	"github.com/dbmrq/globe/internal/country"
	"github.com/dbmrq/globe/internal/devserver"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/session"
	"github.com/dbmrq/globe/internal/storage"
)

// fakeFetcher serves generated pages of 20 and counts requests.
type fakeFetcher struct {
	mu      sync.Mutex
	last    int
	listErr error
	getErr  error
	pages   []int
	block   chan struct{}
}

func (f *fakeFetcher) ListCountries(ctx context.Context, page int) (*country.Page, error) {
	f.mu.Lock()
	f.pages = append(f.pages, page)
	block, err := f.block, f.listErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	p := &country.Page{Pagination: country.Pagination{Page: page, Last: f.last}}
	for i := 0; i < 20; i++ {
		n := (page-1)*20 + i
		p.Data = append(p.Data, country.Summary{
			ID:         country.ID(fmt.Sprint(n)),
			Name:       fmt.Sprintf("Country %d", n),
			Alpha2Code: fmt.Sprintf("%02d", n%100),
		})
	}
	return p, nil
}

func (f *fakeFetcher) GetCountry(ctx context.Context, slug string) (*country.Detail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &country.Detail{Summary: country.Summary{ID: country.ID(slug), Name: "Country " + slug}}, nil
}

func (f *fakeFetcher) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

type fakeSession struct {
	restored, authed bool
	logouts          int
}

func (s *fakeSession) Restored() bool        { return s.restored }
func (s *fakeSession) IsAuthenticated() bool { return s.authed }
func (s *fakeSession) Logout()               { s.authed = false; s.logouts++ }

type fakeNav struct{ calls int }

func (n *fakeNav) ToLogin() { n.calls++ }

func signedIn() *fakeSession { return &fakeSession{restored: true, authed: true} }

func TestMount_WaitsForRestore(t *testing.T) {
	f := &fakeFetcher{last: 3}
	nav := &fakeNav{}
	c := New(f, &fakeSession{}, nav)

	require.NoError(t, c.Mount(context.Background()))
	assert.Equal(t, StateAuthLoading, c.Snapshot().State)
	assert.Empty(t, f.requested())
	assert.Zero(t, nav.calls)
}

func TestMount_SignedOutGoesToLogin(t *testing.T) {
	f := &fakeFetcher{last: 3}
	nav := &fakeNav{}
	c := New(f, &fakeSession{restored: true}, nav)

	require.NoError(t, c.Mount(context.Background()))
	assert.Equal(t, 1, nav.calls)
	assert.Empty(t, f.requested())
}

func TestMount_LoadsFirstPage(t *testing.T) {
	c := New(&fakeFetcher{last: 3}, signedIn(), &fakeNav{})
	require.NoError(t, c.Mount(context.Background()))

	v := c.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.Len(t, v.Items, 20)
	assert.True(t, v.HasMore)
}

func TestOnScroll_AppendsNextPage(t *testing.T) {
	f := &fakeFetcher{last: 3}
	c := New(f, signedIn(), &fakeNav{})
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	fetched, err := c.OnScroll(ctx, ScrollPosition{Offset: 0, Viewport: 10, Content: 20})
	require.NoError(t, err)
	assert.False(t, fetched, "far from the end")

	fetched, err = c.OnScroll(ctx, ScrollPosition{Offset: 8, Viewport: 10, Content: 20})
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Len(t, c.Visible(), 40)
	assert.Equal(t, []int{1, 2}, f.requested())
}

func TestOnScroll_StopsAtLastPage(t *testing.T) {
	f := &fakeFetcher{last: 1}
	c := New(f, signedIn(), &fakeNav{})
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	fetched, err := c.OnScroll(ctx, ScrollPosition{Offset: 19, Viewport: 1, Content: 20})
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, []int{1}, f.requested())
}

func TestLoadMore_SingleFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeFetcher{last: 3}
	c := New(f, signedIn(), &fakeNav{})
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	f.mu.Lock()
	f.block = make(chan struct{})
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.LoadMore(ctx)
	}()

	require.Eventually(t, func() bool { return c.Snapshot().LoadingMore }, time.Second, 5*time.Millisecond)
	fetched, err := c.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, fetched, "second request while one is in flight")

	close(f.block)
	<-done
	assert.Equal(t, []int{1, 2}, f.requested())
	assert.Equal(t, StateLoaded, c.Snapshot().State)
}

func TestUnauthorized_LogsOutAndNavigates(t *testing.T) {
	f := &fakeFetcher{last: 3, listErr: gerrors.ResponseStatus("", 401, "Unauthorized")}
	s := signedIn()
	nav := &fakeNav{}
	c := New(f, s, nav)

	err := c.Mount(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, s.logouts)
	assert.Equal(t, 1, nav.calls)
	assert.Empty(t, c.Snapshot().Err, "a 401 redirects instead of showing an error")
}

func TestFailure_SetsError(t *testing.T) {
	f := &fakeFetcher{last: 3, listErr: gerrors.ResponseStatus("", 500, "")}
	c := New(f, signedIn(), &fakeNav{})
	ctx := context.Background()

	require.Error(t, c.Mount(ctx))
	v := c.Snapshot()
	assert.Equal(t, StateError, v.State)
	assert.Equal(t, "HTTP error! status: 500", v.Err)

	f.mu.Lock()
	f.listErr = nil
	f.mu.Unlock()
	require.NoError(t, c.Retry(ctx))
	v = c.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.Empty(t, v.Err)
}

func TestSelect(t *testing.T) {
	f := &fakeFetcher{last: 3}
	c := New(f, signedIn(), &fakeNav{})
	ctx := context.Background()
	require.NoError(t, c.Mount(ctx))

	require.NoError(t, c.Select(ctx, "7"))
	require.NotNil(t, c.Snapshot().Detail)
	assert.Equal(t, "Country 7", c.Snapshot().Detail.Name)

	c.CloseDetail()
	assert.Nil(t, c.Snapshot().Detail)

	f.getErr = gerrors.ResponseStatus("", 404, "Country not found")
	require.Error(t, c.Select(ctx, "atlantis"))
	assert.Equal(t, "Country not found", c.Snapshot().Err)
}

func TestSetQuery_FiltersLoadedItems(t *testing.T) {
	c := New(&fakeFetcher{last: 3}, signedIn(), &fakeNav{})
	require.NoError(t, c.Mount(context.Background()))

	c.SetQuery("country 1")
	// 1 and 10..19
	assert.Len(t, c.Visible(), 11)

	c.SetQuery("07")
	v := c.Snapshot()
	require.Len(t, v.Items, 1)
	assert.Equal(t, country.ID("7"), v.Items[0].ID)
	assert.Equal(t, 20, v.Total)

	c.SetQuery("")
	assert.Len(t, c.Visible(), 20)
}

func TestWithThreshold(t *testing.T) {
	c := New(&fakeFetcher{}, signedIn(), &fakeNav{}, WithThreshold(0))
	assert.False(t, c.NearEnd(ScrollPosition{Offset: 9, Viewport: 10, Content: 20}))
	assert.True(t, c.NearEnd(ScrollPosition{Offset: 10, Viewport: 10, Content: 20}))
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateLoaded.CanTransitionTo(StateLoadingMore))
	assert.True(t, StateLoading.CanTransitionTo(StateLoadingMore))
	assert.False(t, StateAuthLoading.CanTransitionTo(StateLoaded))
	assert.False(t, State("bogus").IsValid())
	assert.True(t, StateLoadingMore.IsBusy())
}

func TestController_AgainstDevServer(t *testing.T) {
	srv, err := devserver.New(devserver.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	require.NoError(t, srv.AddUser("ana@example.com", "secret1"))
	token, err := srv.IssueToken("ana@example.com")
	require.NoError(t, err)

	s := session.New(storage.NewMemory())
	s.Restore()
	require.NoError(t, s.Login(session.User{"email": "ana@example.com"}, token))

	var navigated bool
	c := New(api.New(ts.URL, api.WithAuth(s)), s, NavigatorFunc(func() { navigated = true }))
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx))
	_, err = c.LoadMore(ctx)
	require.NoError(t, err)
	_, err = c.LoadMore(ctx)
	require.NoError(t, err)

	v := c.Snapshot()
	assert.Equal(t, 45, v.Total)
	assert.False(t, v.HasMore)

	c.SetQuery("br")
	assert.NotEmpty(t, c.Visible())

	srv.RevokeTokens()
	require.Error(t, c.Retry(ctx))
	assert.True(t, navigated)
	assert.False(t, s.IsAuthenticated())
}
