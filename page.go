package sitecrawl

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Crawl defaults.
const (
	DefaultMaxDepth           = 1
	DefaultMaxPages           = 20
	DefaultConcurrency        = 5
	DefaultMaxRetries         = 3
	DefaultRetryDelay         = 2 * time.Second
	DefaultRelevanceThreshold = 0.3
	DefaultMaxLinksPerPage    = 20
	DefaultExcerptLength      = 5000
)

// NoTitle is the title given to pages that have neither a <title> nor an <h1>.
const NoTitle = "No title found"

// NoInstructionsReason explains the score given when a crawl has no instructions.
const NoInstructionsReason = "No filtering instructions provided"

// FrontierEntry is a URL waiting to be fetched along with its link depth
// from the seed.
type FrontierEntry struct {
	URL   string
	Depth int
}

// Relevance is a relevance score in [0,1] and the reason for it.
type Relevance struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// ExtractedContent holds the structured fields pulled out of a relevant page.
type ExtractedContent struct {
	Summary       string         `json:"summary"`
	KeyPoints     []string       `json:"key_points"`
	ExtractedData map[string]any `json:"extracted_data,omitempty"`
}

// PageResult is the outcome of processing one dequeued URL.
// A failed page carries only URL, Depth and Error, and encodes to JSON as
// just its URL and Error.
type PageResult struct {
	URL              string            `json:"url"`
	Depth            int               `json:"depth"`
	Title            string            `json:"title,omitempty"`
	Links            []string          `json:"links,omitempty"`
	Relevance        *Relevance        `json:"relevance,omitempty"`
	ExtractedContent *ExtractedContent `json:"extracted_content,omitempty"`
	Markdown         string            `json:"markdown,omitempty"`
	Timestamp        time.Time         `json:"timestamp,omitzero"`
	Error            string            `json:"error,omitempty"`
}

// Failed reports whether the page could not be processed.
func (p *PageResult) Failed() bool {
	return p.Error != ""
}

// MarshalJSON implements json.Marshaler.
func (p PageResult) MarshalJSON() ([]byte, error) {
	if p.Failed() {
		return json.Marshal(struct {
			URL   string `json:"url"`
			Error string `json:"error"`
		}{p.URL, p.Error})
	}
	type page PageResult
	return json.Marshal(page(p))
}

// CrawlRequest describes a single crawl.
type CrawlRequest struct {
	URL                 string
	Instructions        string
	MaxDepth            int
	FollowExternalLinks bool
	MaxPages            int
	Concurrency         int
}

// Validate returns an error if the request cannot be crawled.
func (r *CrawlRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return Errorf(EINVALID, "url required")
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return Errorf(EINVALID, "invalid url %q: %v", r.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "url %q must use http or https", r.URL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "url %q has no host", r.URL)
	}
	if r.MaxDepth < 0 {
		return Errorf(EINVALID, "depth must not be negative, got %d", r.MaxDepth)
	}
	if r.MaxPages < 1 {
		return Errorf(EINVALID, "max pages must be at least 1, got %d", r.MaxPages)
	}
	if r.Concurrency < 0 {
		return Errorf(EINVALID, "concurrency must not be negative, got %d", r.Concurrency)
	}
	return nil
}

// CrawlMeta summarizes a finished crawl.
type CrawlMeta struct {
	URL                 string    `json:"url"`
	Instructions        string    `json:"instructions"`
	Depth               int       `json:"depth"`
	FollowExternalLinks bool      `json:"follow_external_links"`
	MaxPages            int       `json:"max_pages"`
	PagesCrawled        int       `json:"pages_crawled"`
	TimeTaken           float64   `json:"time_taken"`
	Timestamp           time.Time `json:"timestamp"`
	Cancelled           bool      `json:"cancelled,omitempty"`
}

// CrawlResult is the full output of one crawl.
type CrawlResult struct {
	Meta  CrawlMeta     `json:"meta"`
	Pages []*PageResult `json:"pages"`
}

// Failed returns the pages that could not be processed.
func (r *CrawlResult) Failed() []*PageResult {
	var a []*PageResult
	for _, p := range r.Pages {
		if p.Failed() {
			a = append(a, p)
		}
	}
	return a
}
