package openai

import (
	"context"

	"github.com/fwojciec/sitecrawl"
	"github.com/openai/openai-go/v3"
)

// Ensure RelevanceGate implements sitecrawl.RelevanceGate at compile time.
var _ sitecrawl.RelevanceGate = (*RelevanceGate)(nil)

// RelevanceGate scores page relevance with an OpenAI chat model.
type RelevanceGate struct {
	client *openai.Client
	model  string
}

// NewRelevanceGate creates a new RelevanceGate. An empty model selects
// DefaultModel.
func NewRelevanceGate(client *openai.Client, model string) *RelevanceGate {
	return &RelevanceGate{client: client, model: modelOrDefault(model)}
}

// ScoreRelevance implements sitecrawl.RelevanceGate.
func (g *RelevanceGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (*sitecrawl.Relevance, error) {
	text, err := complete(ctx, g.client, g.model, sitecrawl.RelevanceSystemPrompt, sitecrawl.RelevancePrompt(content, title, instructions), relevanceMaxTokens)
	if err != nil {
		return nil, err
	}
	return sitecrawl.ParseRelevance(text)
}
