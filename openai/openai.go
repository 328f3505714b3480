// Package openai implements relevance scoring and structured extraction with
// the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/sitecrawl"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

const (
	relevanceMaxTokens  = 150
	extractionMaxTokens = 1000
)

// NewClient creates an OpenAI API client. A non-empty baseURL points the
// client at a compatible endpoint.
func NewClient(apiKey, baseURL string, extra ...option.RequestOption) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	client := openai.NewClient(opts...)
	return &client
}

// complete sends a system and user message and returns the first choice.
func complete(ctx context.Context, client *openai.Client, model, system, prompt string, maxTokens int64) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}
	req.Temperature = openai.Float(0.2)
	req.MaxCompletionTokens = openai.Int(maxTokens)

	resp, err := client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", apiError(err)
	}
	if len(resp.Choices) == 0 {
		return "", sitecrawl.Errorf(sitecrawl.EPROCESSING, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// apiError maps 429 responses to ERATELIMITED.
func apiError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return sitecrawl.Errorf(sitecrawl.ERATELIMITED, "openai: %v", err)
	}
	return err
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}
