// Package rod implements sitecrawl.Fetcher with headless Chrome via go-rod,
// for sites whose content is rendered by JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default per-page timeout.
const DefaultFetchTimeout = 10 * time.Second

// navigationStatusJS reads the HTTP status of the main document.
// It returns 0 when the browser does not expose it.
const navigationStatusJS = `() => {
	const nav = performance.getEntriesByType("navigation")[0];
	return nav && nav.responseStatus ? nav.responseStatus : 0;
}`

// Ensure Fetcher implements sitecrawl.Fetcher at compile time.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	recycleAfter int
	userAgent    string
	managerOpts  []ManagerOption
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets the number of pages after which the browser is
// restarted. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowser passes options to the underlying BrowserManager.
func WithBrowser(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(append([]ManagerOption{WithMaxPages(f.recycleAfter)}, f.managerOpts...)...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
//
// A 429 document status yields an ERATELIMITED error and other 4xx/5xx
// statuses yield EFETCH. Timeouts and cancellation wrap the context error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fetchError(url, err)
	}
	defer page.Close()

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fetchError(url, err)
		}
	}

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.Navigate(url); err != nil {
		return "", fetchError(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fetchError(url, err)
	}

	if res, err := page.Eval(navigationStatusJS); err == nil {
		switch status := res.Value.Int(); {
		case status == 429:
			return "", sitecrawl.Errorf(sitecrawl.ERATELIMITED, "HTTP 429 for %s", url)
		case status >= 400:
			return "", sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP %d for %s", status, url)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fetchError(url, err)
	}

	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// fetchError keeps context errors matchable and reports everything else as
// EFETCH.
func fetchError(url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	return sitecrawl.Errorf(sitecrawl.EFETCH, "fetch %s: %v", url, err)
}
