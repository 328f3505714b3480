// Package http provides an HTTP-based implementation of sitecrawl.Fetcher
// for sites that don't require JavaScript rendering.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/fwojciec/sitecrawl"
)

const (
	// DefaultFetchTimeout is the default timeout for HTTP requests.
	// Kept consistent with rod.DefaultFetchTimeout (10s).
	DefaultFetchTimeout = 10 * time.Second

	// DefaultMaxBodyBytes is the default limit on decoded response bodies.
	DefaultMaxBodyBytes = 10 << 20

	// DefaultUserAgent identifies the crawler to servers.
	DefaultUserAgent = "sitecrawl/1.0"
)

// Ensure Fetcher implements sitecrawl.Fetcher at compile time.
var _ sitecrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodyBytes limits the size of a decoded response body.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxBodyBytes: DefaultMaxBodyBytes,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
//
// A 429 response yields an ERATELIMITED error; any other non-200 status or
// transport failure yields EFETCH. Context cancellation is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "build request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", sitecrawl.Errorf(sitecrawl.ERATELIMITED, "HTTP 429 for %s", url)
	case resp.StatusCode != http.StatusOK:
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EFETCH, "read %s: %v", url, err)
	}

	return string(body), nil
}

// readBody decodes the response body according to its Content-Encoding and
// enforces the body size limit.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, sitecrawl.Errorf(sitecrawl.EFETCH, "response body exceeds limit of %d bytes", f.maxBodyBytes)
	}
	return body, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
