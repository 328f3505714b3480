package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of sitecrawl.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*sitecrawl.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*sitecrawl.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ sitecrawl.StructuredExtractor = (*StructuredExtractor)(nil)

// StructuredExtractor is a mock implementation of sitecrawl.StructuredExtractor.
type StructuredExtractor struct {
	ExtractStructuredFn func(ctx context.Context, html, title, url, instructions string) (*sitecrawl.ExtractedContent, error)
}

func (e *StructuredExtractor) ExtractStructured(ctx context.Context, html, title, url, instructions string) (*sitecrawl.ExtractedContent, error) {
	return e.ExtractStructuredFn(ctx, html, title, url, instructions)
}

var _ sitecrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitecrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
