package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitecrawl"
)

// Compile-time interface verification.
var (
	_ sitecrawl.RelevanceGate       = (*FallbackGate)(nil)
	_ sitecrawl.StructuredExtractor = (*FallbackExtractor)(nil)
)

// FallbackGate scores with Primary and falls back to Fallback when Primary
// fails. An error is returned only if both fail.
type FallbackGate struct {
	Primary  sitecrawl.RelevanceGate
	Fallback sitecrawl.RelevanceGate
	Logger   *slog.Logger
}

// ScoreRelevance implements sitecrawl.RelevanceGate.
func (g *FallbackGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (*sitecrawl.Relevance, error) {
	r, err := g.Primary.ScoreRelevance(ctx, content, title, instructions)
	if err == nil {
		return r, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if g.Logger != nil {
		g.Logger.Warn("relevance scoring failed, using fallback", "title", title, "err", err)
	}
	return g.Fallback.ScoreRelevance(ctx, content, title, instructions)
}

// FallbackExtractor extracts with Primary and falls back to Fallback when
// Primary fails. An error is returned only if both fail.
type FallbackExtractor struct {
	Primary  sitecrawl.StructuredExtractor
	Fallback sitecrawl.StructuredExtractor
	Logger   *slog.Logger
}

// ExtractStructured implements sitecrawl.StructuredExtractor.
func (e *FallbackExtractor) ExtractStructured(ctx context.Context, html, title, url, instructions string) (*sitecrawl.ExtractedContent, error) {
	content, err := e.Primary.ExtractStructured(ctx, html, title, url, instructions)
	if err == nil {
		return content, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if e.Logger != nil {
		e.Logger.Warn("structured extraction failed, using fallback", "url", url, "err", err)
	}
	return e.Fallback.ExtractStructured(ctx, html, title, url, instructions)
}
