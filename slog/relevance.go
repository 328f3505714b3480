package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.RelevanceGate = (*LoggingRelevanceGate)(nil)

// LoggingRelevanceGate wraps a RelevanceGate with logging.
type LoggingRelevanceGate struct {
	next   sitecrawl.RelevanceGate
	logger *slog.Logger
}

// NewLoggingRelevanceGate creates a new LoggingRelevanceGate.
func NewLoggingRelevanceGate(next sitecrawl.RelevanceGate, logger *slog.Logger) *LoggingRelevanceGate {
	return &LoggingRelevanceGate{next: next, logger: logger}
}

// ScoreRelevance logs the score and delegates to the wrapped gate.
func (g *LoggingRelevanceGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (r *sitecrawl.Relevance, err error) {
	defer func(begin time.Time) {
		var score float64
		if r != nil {
			score = r.Score
		}
		g.logger.Debug("relevance",
			"title", title,
			"score", score,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.ScoreRelevance(ctx, content, title, instructions)
}
