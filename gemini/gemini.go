// Package gemini implements relevance scoring, structured extraction and
// token counting with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/sitecrawl"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// BuildConfig returns the GenerateContentConfig for JSON-answering calls
// with the given system instruction.
func BuildConfig(system string) *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// generate sends a single-turn prompt and returns the response text.
func generate(ctx context.Context, client *genai.Client, model, system, prompt string) (string, error) {
	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(system),
	)
	if err != nil {
		return "", apiError(err)
	}
	if result == nil {
		return "", sitecrawl.Errorf(sitecrawl.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// apiError maps quota exhaustion to ERATELIMITED so callers back off the
// same way they do for throttled fetches.
func apiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return sitecrawl.Errorf(sitecrawl.ERATELIMITED, "gemini: %v", err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code == http.StatusTooManyRequests {
		return sitecrawl.Errorf(sitecrawl.ERATELIMITED, "gemini: %v", err)
	}
	return err
}

func modelOrDefault(model string) string {
	if model == "" {
		return DefaultModel
	}
	return model
}
