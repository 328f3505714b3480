package gemini

import (
	"context"

	"github.com/fwojciec/sitecrawl"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ sitecrawl.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline with the Gemini local tokenizer. The
// tokenizer model files are downloaded on first use.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EINVALID, "tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the total token count of texts. Empty texts are
// skipped.
func (tc *TokenCounter) CountTokens(ctx context.Context, texts ...string) (int, error) {
	var contents []*genai.Content
	for _, text := range texts {
		if text == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	if len(contents) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, sitecrawl.Errorf(sitecrawl.EPROCESSING, "count tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
