package crawl

import (
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/bloom"
)

// Frontier sizing for the Bloom pre-filter.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-filter.
	frontierFalsePositiveRate = 0.01
)

// Frontier is the breadth-first queue of URLs for one crawl. It tracks which
// URLs are queued and which have been visited so each URL is fetched at most
// once. A URL counts as visited from the moment it is dequeued.
//
// Every URL offered to Enqueue is also added to a Bloom filter. A negative
// filter answer proves a URL is new without touching the maps; the maps
// decide everything else, so false positives never drop a URL.
//
// Frontier is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu             sync.Mutex
	queue          []sitecrawl.FrontierEntry
	queued         map[string]struct{}
	visited        map[string]struct{}
	seen           *bloom.Filter
	startDomain    string
	followExternal bool
}

// FrontierOption configures a Frontier.
type FrontierOption func(*frontierConfig)

type frontierConfig struct {
	expectedURLs uint
}

// WithExpectedURLs sizes the Bloom pre-filter for n URLs. Zero keeps the
// default.
func WithExpectedURLs(n uint) FrontierOption {
	return func(c *frontierConfig) {
		if n > 0 {
			c.expectedURLs = n
		}
	}
}

// NewFrontier creates a Frontier seeded with seedURL at depth 0.
// seedURL must already be normalized.
func NewFrontier(seedURL string, followExternal bool, opts ...FrontierOption) *Frontier {
	cfg := frontierConfig{expectedURLs: frontierExpectedURLs}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &Frontier{
		queued:         make(map[string]struct{}),
		visited:        make(map[string]struct{}),
		seen:           bloom.NewFilter(cfg.expectedURLs, frontierFalsePositiveRate),
		startDomain:    sitecrawl.Domain(seedURL),
		followExternal: followExternal,
	}
	f.Enqueue(seedURL, 0)
	return f
}

// StartDomain returns the domain of the seed URL.
func (f *Frontier) StartDomain() string {
	return f.startDomain
}

// Enqueue appends url at depth to the tail of the queue.
// Returns false if url is already queued or visited.
func (f *Frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(url) && f.known(url) {
		return false
	}
	f.queued[url] = struct{}{}
	f.queue = append(f.queue, sitecrawl.FrontierEntry{URL: url, Depth: depth})
	return true
}

// Dequeue pops the head of the queue and marks it visited.
// The bool result is false if the queue is empty.
func (f *Frontier) Dequeue() (sitecrawl.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) > 0 {
		entry := f.queue[0]
		f.queue[0] = sitecrawl.FrontierEntry{}
		f.queue = f.queue[1:]
		delete(f.queued, entry.URL)

		if _, ok := f.visited[entry.URL]; ok {
			continue
		}
		f.visited[entry.URL] = struct{}{}
		return entry, true
	}
	return sitecrawl.FrontierEntry{}, false
}

// ShouldFollow reports whether a link on a page from currentDomain to
// linkDomain may be crawled. Links within the current domain are always
// followed. With followExternal set, links leading back to the start domain
// are followed too; other domains never are.
func (f *Frontier) ShouldFollow(linkDomain, currentDomain string) bool {
	if linkDomain == currentDomain {
		return true
	}
	return f.followExternal && linkDomain == f.startDomain
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Visited returns the number of dequeued URLs.
func (f *Frontier) Visited() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// IsVisited reports whether url has been dequeued.
func (f *Frontier) IsVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.seen.MayContain(url) {
		return false
	}
	_, ok := f.visited[url]
	return ok
}

// Saturated reports whether more URLs were offered than the Bloom
// pre-filter was sized for. A saturated filter stays correct but stops
// saving map lookups.
func (f *Frontier) Saturated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Saturated()
}

// known reports whether url is queued or visited. Callers must hold f.mu.
func (f *Frontier) known(url string) bool {
	if _, ok := f.queued[url]; ok {
		return true
	}
	_, ok := f.visited[url]
	return ok
}
