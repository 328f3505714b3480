// Package crawl provides single-site crawl orchestration.
// It walks a breadth-first frontier with a bounded worker pool, fetches
// pages with rate-limit backoff, and runs each page through relevance
// scoring and conditional structured extraction.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitecrawl"
)

// DefaultExtractionInstructions are passed to the extractor when a crawl has
// no instructions of its own.
const DefaultExtractionInstructions = "Extract main content."

// Crawler crawls a single site and processes every page it visits.
type Crawler struct {
	Fetcher          sitecrawl.Fetcher
	Parser           sitecrawl.PageParser
	ContentExtractor sitecrawl.ContentExtractor
	Converter        sitecrawl.Converter
	Gate             sitecrawl.RelevanceGate
	Extractor        sitecrawl.StructuredExtractor
	RateLimiter      sitecrawl.DomainLimiter
	Logger           *slog.Logger

	// RelevanceThreshold is the minimum score for structured extraction.
	// Nil means sitecrawl.DefaultRelevanceThreshold; zero extracts every page.
	RelevanceThreshold *float64
	// MaxLinksPerPage caps the links kept per page.
	// Zero or less means sitecrawl.DefaultMaxLinksPerPage.
	MaxLinksPerPage int
	// ExcerptLength is the number of characters sent to the relevance gate.
	// Zero or less means sitecrawl.DefaultExcerptLength.
	ExcerptLength int
	// MaxRetries is the number of retries for a rate-limited fetch.
	// Zero means sitecrawl.DefaultMaxRetries; negative disables retries.
	MaxRetries int
	// RetryDelay is the first backoff delay, doubled on every retry.
	// Zero or less means sitecrawl.DefaultRetryDelay.
	RetryDelay time.Duration
	// ExpectedURLs sizes the frontier's Bloom pre-filter.
	// Zero means 10000.
	ExpectedURLs uint
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Depth     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl walks the site from req.URL and returns one PageResult per visited
// URL. Invalid requests are rejected with EINVALID before anything is
// fetched. Per-page failures are recorded on the page and never abort the
// crawl. If ctx is canceled, the pages collected so far are returned with
// Meta.Cancelled set. The progress callback may be nil.
func (c *Crawler) Crawl(ctx context.Context, req sitecrawl.CrawlRequest, progress ProgressFunc) (*sitecrawl.CrawlResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed, ok := sitecrawl.NormalizeURL(req.URL, req.URL)
	if !ok {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "invalid url %q", req.URL)
	}

	concurrency := req.Concurrency
	if concurrency == 0 {
		concurrency = sitecrawl.DefaultConcurrency
	}

	logger := c.logger()
	begin := time.Now()
	logger.Info("crawl started",
		"url", seed,
		"depth", req.MaxDepth,
		"max_pages", req.MaxPages,
		"concurrency", concurrency,
	)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: req.MaxPages})
	}

	frontier := NewFrontier(seed, req.FollowExternalLinks, WithExpectedURLs(c.ExpectedURLs))
	var pages []*sitecrawl.PageResult

	process := func(ctx context.Context, entry sitecrawl.FrontierEntry) *sitecrawl.PageResult {
		return c.process(ctx, entry, req.Instructions)
	}
	handle := func(page *sitecrawl.PageResult) {
		pages = append(pages, page)
		if progress != nil {
			event := ProgressEvent{
				Type:      ProgressCompleted,
				Completed: len(pages),
				Total:     req.MaxPages,
				URL:       page.URL,
				Depth:     page.Depth,
			}
			if page.Failed() {
				event.Type = ProgressFailed
				event.Error = errors.New(page.Error)
			}
			progress(event)
		}
		if page.Failed() || page.Depth >= req.MaxDepth {
			return
		}
		c.admitLinks(frontier, page)
	}

	c.walkFrontier(ctx, frontier, req.MaxPages, concurrency, process, handle)

	result := &sitecrawl.CrawlResult{
		Meta: sitecrawl.CrawlMeta{
			URL:                 req.URL,
			Instructions:        req.Instructions,
			Depth:               req.MaxDepth,
			FollowExternalLinks: req.FollowExternalLinks,
			MaxPages:            req.MaxPages,
			PagesCrawled:        len(pages),
			TimeTaken:           time.Since(begin).Seconds(),
			Timestamp:           time.Now().UTC(),
			Cancelled:           ctx.Err() != nil,
		},
		Pages: pages,
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(pages), Total: req.MaxPages})
	}
	if frontier.Saturated() {
		logger.Warn("frontier pre-filter saturated; dedup falls back to exact lookups",
			"url", seed,
			"expected_urls", c.expectedURLs(),
		)
	}
	logger.Info("crawl finished",
		"url", seed,
		"pages", len(pages),
		"failed", len(result.Failed()),
		"queued", frontier.Len(),
		"cancelled", result.Meta.Cancelled,
		"duration", time.Since(begin),
	)

	return result, nil
}

// admitLinks enqueues the in-scope links of a successfully processed page
// one level deeper.
func (c *Crawler) admitLinks(frontier *Frontier, page *sitecrawl.PageResult) {
	currentDomain := sitecrawl.Domain(page.URL)
	for _, link := range page.Links {
		normalized, ok := sitecrawl.NormalizeURL(page.URL, link)
		if !ok {
			continue
		}
		if !frontier.ShouldFollow(sitecrawl.Domain(normalized), currentDomain) {
			continue
		}
		frontier.Enqueue(normalized, page.Depth+1)
	}
}

// process fetches one URL and runs it through the page pipeline.
// It never returns nil; failures are recorded on the returned page.
func (c *Crawler) process(ctx context.Context, entry sitecrawl.FrontierEntry, instructions string) *sitecrawl.PageResult {
	page := &sitecrawl.PageResult{URL: entry.URL, Depth: entry.Depth}

	if err := ctx.Err(); err != nil {
		return failPage(page, err)
	}

	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, sitecrawl.Domain(entry.URL)); err != nil {
			return failPage(page, err)
		}
	}

	html, err := FetchWithBackoff(ctx, entry.URL, c.Fetcher.Fetch, c.logger(), c.retryDelays())
	if err != nil {
		return failPage(page, err)
	}

	parsed, err := c.Parser.Parse(html, entry.URL)
	if err != nil {
		return failPage(page, sitecrawl.Errorf(sitecrawl.EPROCESSING, "parse %s: %s", entry.URL, sitecrawl.ErrorMessage(err)))
	}
	page.Title = parsed.Title
	page.Links = capLinks(parsed.Links, c.maxLinksPerPage())

	markdown := c.markdown(html, parsed)

	relevance, err := c.score(ctx, markdown, parsed.Title, instructions)
	if err != nil {
		return failPage(page, sitecrawl.Errorf(sitecrawl.EPROCESSING, "relevance %s: %s", entry.URL, sitecrawl.ErrorMessage(err)))
	}
	page.Relevance = relevance

	if relevance.Score >= c.relevanceThreshold() {
		page.Markdown = markdown
		if c.Extractor != nil {
			extractInstructions := instructions
			if strings.TrimSpace(extractInstructions) == "" {
				extractInstructions = DefaultExtractionInstructions
			}
			content, err := c.Extractor.ExtractStructured(ctx, html, parsed.Title, entry.URL, extractInstructions)
			if err != nil {
				return failPage(page, sitecrawl.Errorf(sitecrawl.EPROCESSING, "extract %s: %s", entry.URL, sitecrawl.ErrorMessage(err)))
			}
			page.ExtractedContent = content
		}
	}

	page.Timestamp = time.Now().UTC()
	return page
}

// score returns the page relevance. Without instructions every page is
// fully relevant and the gate is not consulted.
func (c *Crawler) score(ctx context.Context, markdown, title, instructions string) (*sitecrawl.Relevance, error) {
	if strings.TrimSpace(instructions) == "" {
		return &sitecrawl.Relevance{Score: 1.0, Reason: sitecrawl.NoInstructionsReason}, nil
	}

	gate := c.Gate
	if gate == nil {
		gate = sitecrawl.KeywordGate{}
	}
	relevance, err := gate.ScoreRelevance(ctx, Truncate(markdown, c.excerptLength()), title, instructions)
	if err != nil {
		return nil, err
	}
	relevance.Score = sitecrawl.ClampScore(relevance.Score)
	return relevance, nil
}

// markdown converts the page to Markdown, preferring the main content found
// by the content extractor. It falls back to the parsed page text.
func (c *Crawler) markdown(html string, parsed *sitecrawl.ParsedPage) string {
	if c.Converter == nil {
		return parsed.Text
	}

	content := html
	if c.ContentExtractor != nil {
		res, err := c.ContentExtractor.Extract(html)
		switch {
		case err != nil:
			c.logger().Debug("content extraction failed", "err", err)
		case strings.TrimSpace(res.ContentHTML) != "":
			content = res.ContentHTML
		}
	}

	md, err := c.Converter.Convert(content)
	if err != nil || strings.TrimSpace(md) == "" {
		c.logger().Debug("markdown conversion failed", "err", err)
		return parsed.Text
	}
	return md
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Crawler) retryDelays() []time.Duration {
	retries := c.MaxRetries
	if retries == 0 {
		retries = sitecrawl.DefaultMaxRetries
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = sitecrawl.DefaultRetryDelay
	}
	return BackoffDelays(delay, retries)
}

func (c *Crawler) relevanceThreshold() float64 {
	if c.RelevanceThreshold == nil {
		return sitecrawl.DefaultRelevanceThreshold
	}
	return *c.RelevanceThreshold
}

func (c *Crawler) expectedURLs() uint {
	if c.ExpectedURLs == 0 {
		return frontierExpectedURLs
	}
	return c.ExpectedURLs
}

func (c *Crawler) maxLinksPerPage() int {
	if c.MaxLinksPerPage <= 0 {
		return sitecrawl.DefaultMaxLinksPerPage
	}
	return c.MaxLinksPerPage
}

func (c *Crawler) excerptLength() int {
	if c.ExcerptLength <= 0 {
		return sitecrawl.DefaultExcerptLength
	}
	return c.ExcerptLength
}

// failPage records err on page and drops everything but its URL and depth.
func failPage(page *sitecrawl.PageResult, err error) *sitecrawl.PageResult {
	return &sitecrawl.PageResult{
		URL:   page.URL,
		Depth: page.Depth,
		Error: sitecrawl.ErrorMessage(err),
	}
}

func capLinks(links []string, n int) []string {
	if len(links) <= n {
		return links
	}
	return links[:n]
}

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
