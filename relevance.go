package sitecrawl

import "context"

// RelevanceGate scores how well a page matches the crawl instructions.
type RelevanceGate interface {
	// ScoreRelevance returns a score in [0,1] for the content excerpt and
	// title against instructions.
	ScoreRelevance(ctx context.Context, content, title, instructions string) (*Relevance, error)
}

// ClampScore limits s to [0,1].
func ClampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
