// Package readability removes page boilerplate using go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sitecrawl.ContentExtractor at compile time.
var _ sitecrawl.ContentExtractor = (*Extractor)(nil)

// Extractor finds the main article of a page with Mozilla's Readability
// algorithm.
type Extractor struct {
	pageURL *url.URL
}

// NewExtractor creates a new Extractor. A non-empty siteURL lets readability
// resolve relative links in the extracted article.
func NewExtractor(siteURL string) *Extractor {
	e := &Extractor{}
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		e.pageURL = u
	}
	return e
}

// Extract implements sitecrawl.ContentExtractor.
func (e *Extractor) Extract(rawHTML string) (*sitecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.pageURL)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "extract article: %v", err)
	}

	return &sitecrawl.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
