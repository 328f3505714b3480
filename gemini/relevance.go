package gemini

import (
	"context"

	"github.com/fwojciec/sitecrawl"
	"google.golang.org/genai"
)

// Ensure RelevanceGate implements sitecrawl.RelevanceGate at compile time.
var _ sitecrawl.RelevanceGate = (*RelevanceGate)(nil)

// RelevanceGate scores page relevance with Gemini.
type RelevanceGate struct {
	client *genai.Client
	model  string
}

// NewRelevanceGate creates a new RelevanceGate. An empty model selects
// DefaultModel.
func NewRelevanceGate(client *genai.Client, model string) *RelevanceGate {
	return &RelevanceGate{client: client, model: modelOrDefault(model)}
}

// ScoreRelevance implements sitecrawl.RelevanceGate.
func (g *RelevanceGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (*sitecrawl.Relevance, error) {
	text, err := generate(ctx, g.client, g.model, sitecrawl.RelevanceSystemPrompt, sitecrawl.RelevancePrompt(content, title, instructions))
	if err != nil {
		return nil, err
	}
	return sitecrawl.ParseRelevance(text)
}
