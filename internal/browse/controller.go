package browse

import (
	"context"
	"sync"

	"github.com/dbmrq/globe/internal/api"
	"github.com/dbmrq/globe/internal/country"
	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/logging"
)

// DefaultThreshold is how many rows from the end a scroll triggers the next page.
const DefaultThreshold = 3

// Fetcher loads list pages and detail records.
type Fetcher interface {
	ListCountries(ctx context.Context, page int) (*country.Page, error)
	GetCountry(ctx context.Context, slug string) (*country.Detail, error)
}

// Session is the part of the session store the list needs.
type Session interface {
	Restored() bool
	IsAuthenticated() bool
	Logout()
}

// Navigator switches screens.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// ScrollPosition describes the visible window over the list, in rows.
type ScrollPosition struct {
	Offset   int
	Viewport int
	Content  int
}

// View is a consistent copy of the controller's state for rendering.
type View struct {
	State       State
	Items       []country.Summary
	Total       int
	Query       string
	Detail      *country.Detail
	Err         string
	Page        int
	Last        int
	HasMore     bool
	LoadingMore bool
}

// Controller holds the list screen's state. Its methods block on the
// network and are safe to call from several goroutines.
type Controller struct {
	fetcher   Fetcher
	session   Session
	nav       Navigator
	threshold int
	log       *logging.Logger

	mu          sync.Mutex
	state       State
	catalogue   country.Catalogue
	query       string
	detail      *country.Detail
	err         string
	loadingMore bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold sets the scroll threshold in rows.
func WithThreshold(rows int) Option {
	return func(c *Controller) {
		if rows >= 0 {
			c.threshold = rows
		}
	}
}

// New creates a Controller in StateLoading.
func New(f Fetcher, s Session, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   f,
		session:   s,
		nav:       nav,
		threshold: DefaultThreshold,
		log:       logging.With("component", "browse"),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// setState must be called with c.mu held.
func (c *Controller) setState(next State) {
	if c.state != next && !c.state.CanTransitionTo(next) {
		c.log.Warn("unexpected state transition", "from", c.state, "to", next)
	}
	c.state = next
}

// Mount starts the screen. Before the session is restored it only enters
// StateAuthLoading; call Mount again once it is. A signed-out session goes
// to the login screen. Otherwise the first page is fetched.
func (c *Controller) Mount(ctx context.Context) error {
	if !c.session.Restored() {
		c.mu.Lock()
		c.state = StateAuthLoading
		c.mu.Unlock()
		return nil
	}
	if !c.session.IsAuthenticated() {
		c.nav.ToLogin()
		return nil
	}
	return c.load(ctx)
}

// Retry fetches the first page again.
func (c *Controller) Retry(ctx context.Context) error {
	return c.load(ctx)
}

func (c *Controller) load(ctx context.Context) error {
	c.mu.Lock()
	c.setState(StateLoading)
	c.mu.Unlock()

	page, err := c.fetcher.ListCountries(ctx, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked(err)
	}
	c.catalogue.Reset(page)
	c.err = ""
	c.setState(StateLoaded)
	return nil
}

// NearEnd reports whether pos is within the threshold of the end.
func (c *Controller) NearEnd(pos ScrollPosition) bool {
	return pos.Offset+pos.Viewport >= pos.Content-c.threshold
}

// OnScroll fetches the next page when pos is near the end, more pages
// exist and no other next-page fetch is running. It reports whether a
// fetch was made.
func (c *Controller) OnScroll(ctx context.Context, pos ScrollPosition) (bool, error) {
	if !c.NearEnd(pos) {
		return false, nil
	}
	return c.LoadMore(ctx)
}

// LoadMore fetches the next page unless one is already in flight or the
// last page has been reached.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.loadingMore || !c.catalogue.HasMore() {
		c.mu.Unlock()
		return false, nil
	}
	c.loadingMore = true
	next := c.catalogue.NextPage()
	c.setState(StateLoadingMore)
	c.mu.Unlock()

	page, err := c.fetcher.ListCountries(ctx, next)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false
	if err != nil {
		return true, c.failLocked(err)
	}
	c.catalogue.Append(page)
	c.setState(StateLoaded)
	return true, nil
}

// Select fetches the detail record for id.
func (c *Controller) Select(ctx context.Context, id country.ID) error {
	detail, err := c.fetcher.GetCountry(ctx, string(id))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked(err)
	}
	c.detail = detail
	return nil
}

// CloseDetail discards the selected detail record.
func (c *Controller) CloseDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detail = nil
}

// SetQuery sets the search term.
func (c *Controller) SetQuery(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = term
}

// Visible returns the records matching the search term.
func (c *Controller) Visible() []country.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return country.Filter(c.catalogue.Items(), c.query)
}

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.catalogue.Items()
	return View{
		State:       c.state,
		Items:       country.Filter(items, c.query),
		Total:       len(items),
		Query:       c.query,
		Detail:      c.detail,
		Err:         c.err,
		Page:        c.catalogue.Page(),
		Last:        c.catalogue.Last(),
		HasMore:     c.catalogue.HasMore(),
		LoadingMore: c.loadingMore,
	}
}

// failLocked records err. A 401 clears the session and goes to login.
// Must be called with c.mu held.
func (c *Controller) failLocked(err error) error {
	if api.IsUnauthorized(err) {
		c.log.Info("session rejected by backend, signing out")
		c.catalogue = country.Catalogue{}
		c.detail = nil
		c.err = ""
		c.state = StateLoading
		c.session.Logout()
		c.nav.ToLogin()
		return err
	}
	c.err = gerrors.Message(err)
	c.setState(StateError)
	return err
}
