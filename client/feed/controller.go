package feed

import (
	"context"
	"sync"

	"ted-mirror/domain/model"
)

// State is the controller lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Query selects one feed: a catalog channel listing, the bucket, or a
// curated set.
type Query struct {
	Feed     string // "videos", "bucket", "favourites", "watched"
	Channel  string // videos feed only; tag or "all"
	SortBy   string
	PageSize int
}

// Fetcher loads one page of a feed. hasMore reports whether another page
// exists past this one.
type Fetcher interface {
	FetchPage(ctx context.Context, q Query, page int) (items []model.CatalogItem, hasMore bool, err error)
}

// Controller accumulates feed pages behind a small state machine. At most
// one fetch is in flight at a time; a query change invalidates in-flight
// fetches through a generation counter so late results for the old query
// are discarded instead of corrupting the new one.
type Controller struct {
	fetcher Fetcher

	mu         sync.Mutex
	query      Query
	hasQuery   bool
	state      State
	items      []model.CatalogItem
	page       int
	generation uint64
	inFlight   bool
	lastErr    error
}

func NewController(fetcher Fetcher) *Controller {
	return &Controller{fetcher: fetcher, state: StateIdle}
}

// SetQuery switches the controller to a new feed and loads its first page.
// Accumulated items are dropped immediately; any fetch still running for the
// previous query becomes stale and its result is ignored.
func (c *Controller) SetQuery(ctx context.Context, q Query) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.query = q
	c.hasQuery = true
	c.items = nil
	c.page = 0
	c.lastErr = nil
	c.state = StateLoading
	c.inFlight = true
	c.mu.Unlock()

	return c.fetch(ctx, gen, q, 1)
}

// LoadMore fetches the next page and appends it. It is a no-op while a fetch
// is in flight, before any query is set, or once the feed is exhausted. After
// a failed fetch it retries the same page, so an error never strands the feed.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight || !c.hasQuery || c.state == StateExhausted {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	q := c.query
	page := c.page + 1
	c.state = StateLoading
	c.inFlight = true
	c.mu.Unlock()

	return c.fetch(ctx, gen, q, page)
}

// Refetch reloads the current query from the first page. It is a no-op while
// a fetch is in flight or before any query is set.
func (c *Controller) Refetch(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight || !c.hasQuery {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	q := c.query
	c.lastErr = nil
	c.state = StateLoading
	c.inFlight = true
	c.mu.Unlock()

	return c.fetch(ctx, gen, q, 1)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, q Query, page int) error {
	items, hasMore, err := c.fetcher.FetchPage(ctx, q, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// Stale result for a replaced query. The in-flight flag now belongs
		// to the newer generation's fetch, so leave it alone.
		return nil
	}
	c.inFlight = false

	if err != nil {
		// Keep whatever pages already accumulated.
		c.lastErr = err
		if len(c.items) > 0 {
			c.state = StateLoaded
		} else {
			c.state = StateIdle
		}
		return err
	}

	c.lastErr = nil
	if page == 1 {
		c.items = items
	} else {
		c.appendNew(items)
	}
	c.page = page
	if hasMore {
		c.state = StateLoaded
	} else {
		c.state = StateExhausted
	}
	return nil
}

// appendNew appends items not already present, keyed by video id. Overlap
// happens when the catalog shifts between page fetches.
func (c *Controller) appendNew(items []model.CatalogItem) {
	seen := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		seen[item.YouTubeID] = struct{}{}
	}
	for _, item := range items {
		if _, dup := seen[item.YouTubeID]; dup {
			continue
		}
		c.items = append(c.items, item)
	}
}

// Items returns a copy of the accumulated items.
func (c *Controller) Items() []model.CatalogItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Page returns the last successfully loaded page number, 0 before any load.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}
