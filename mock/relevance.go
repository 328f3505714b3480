package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.RelevanceGate = (*RelevanceGate)(nil)

// RelevanceGate is a mock implementation of sitecrawl.RelevanceGate.
type RelevanceGate struct {
	ScoreRelevanceFn func(ctx context.Context, content, title, instructions string) (*sitecrawl.Relevance, error)
}

func (g *RelevanceGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (*sitecrawl.Relevance, error) {
	return g.ScoreRelevanceFn(ctx, content, title, instructions)
}
