package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.StructuredExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a StructuredExtractor with logging.
type LoggingExtractor struct {
	next   sitecrawl.StructuredExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sitecrawl.StructuredExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractStructured logs the extraction and delegates to the wrapped extractor.
func (e *LoggingExtractor) ExtractStructured(ctx context.Context, html, title, url, instructions string) (c *sitecrawl.ExtractedContent, err error) {
	defer func(begin time.Time) {
		var keyPoints int
		if c != nil {
			keyPoints = len(c.KeyPoints)
		}
		e.logger.Debug("extract",
			"url", url,
			"key_points", keyPoints,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractStructured(ctx, html, title, url, instructions)
}
