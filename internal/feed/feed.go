// Package feed implements incremental post loading: pages are fetched one
// at a time and accumulated, with duplicate suppression and at most one
// fetch in flight. It backs clients that render an infinite-scroll listing.
package feed

import (
	"context"
	"sync"

	"atelier/internal/models"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 9

// Page is one fetched slice of a listing plus its termination data.
type Page struct {
	Posts      []*models.Post
	TotalCount int64
	HasMore    bool
}

// Fetcher loads one page for a filter. Implementations typically call the
// posts API or the post service directly.
type Fetcher func(ctx context.Context, f models.PostFilter, limit, offset int) (*Page, error)

// Feed accumulates pages of a filtered post listing.
//
// Concurrency rules: at most one fetch runs at a time; a Load or LoadMore
// entered while another fetch is in flight returns immediately without
// fetching. Changing the filter resets the feed, and any fetch still in
// flight for the old filter is discarded when it returns.
type Feed struct {
	fetch    Fetcher
	pageSize int

	mu         sync.Mutex
	filter     models.PostFilter
	posts      []*models.Post
	seen       map[uint]struct{}
	offset     int
	total      int64
	hasMore    bool
	busy       bool
	generation uint64
}

// New creates a feed for the given fetcher. A pageSize of zero or less
// falls back to DefaultPageSize.
func New(fetch Fetcher, pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Feed{
		fetch:    fetch,
		pageSize: pageSize,
		seen:     map[uint]struct{}{},
		hasMore:  true,
	}
}

// SetFilter switches the feed to a new filter and clears accumulated state.
// The next Load starts from the first page.
func (f *Feed) SetFilter(filter models.PostFilter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	f.resetLocked()
}

// Load fetches the first page for the current filter, discarding anything
// accumulated so far. It returns false without fetching when another fetch
// is already in flight.
func (f *Feed) Load(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return false, nil
	}
	f.resetLocked()
	return f.fetchPageLocked(ctx)
}

// LoadMore fetches the next page and appends it. It returns false without
// fetching when a fetch is in flight or the listing is exhausted.
func (f *Feed) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.busy || !f.hasMore {
		f.mu.Unlock()
		return false, nil
	}
	return f.fetchPageLocked(ctx)
}

// fetchPageLocked runs one fetch for the current offset. The caller must
// hold f.mu; the lock is released for the duration of the fetch and the
// result is discarded if the filter changed in the meantime.
func (f *Feed) fetchPageLocked(ctx context.Context) (bool, error) {
	f.busy = true
	gen := f.generation
	filter := f.filter
	offset := f.offset
	f.mu.Unlock()

	page, err := f.fetch(ctx, filter, f.pageSize, offset)

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		// The filter changed while this fetch was in flight. The busy flag
		// belongs to the new generation now, so leave it alone.
		return false, nil
	}
	f.busy = false
	if err != nil {
		// A failed fetch leaves the feed unchanged; the same page can be
		// retried.
		return false, err
	}

	for _, p := range page.Posts {
		if _, dup := f.seen[p.ID]; dup {
			continue
		}
		f.seen[p.ID] = struct{}{}
		f.posts = append(f.posts, p)
	}
	f.offset += f.pageSize
	f.total = page.TotalCount
	f.hasMore = int64(len(f.posts)) < page.TotalCount
	return true, nil
}

func (f *Feed) resetLocked() {
	f.generation++
	f.posts = nil
	f.seen = map[uint]struct{}{}
	f.offset = 0
	f.total = 0
	f.hasMore = true
	f.busy = false
}

// Posts returns a snapshot of the accumulated posts in display order.
func (f *Feed) Posts() []*models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Total returns the matching-post total from the most recent page.
func (f *Feed) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

// HasMore reports whether another page remains to load.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Loading reports whether a fetch is currently in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// PageSize returns the configured page size.
func (f *Feed) PageSize() int {
	return f.pageSize
}
