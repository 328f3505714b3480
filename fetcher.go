package sitecrawl

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch returns the HTML for url. A throttled request must return an
	// error with code ERATELIMITED so the caller can back off; any other
	// failure should use EFETCH.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter paces requests per domain. Wait blocks until a request to
// domain may start, or returns the context error.
type DomainLimiter interface {
	Wait(ctx context.Context, domain string) error
}
