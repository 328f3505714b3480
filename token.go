package sitecrawl

import "context"

// TokenCounter reports how many model tokens a set of texts would use.
// Texts are counted as separate parts of one request.
type TokenCounter interface {
	CountTokens(ctx context.Context, texts ...string) (int, error)
}
