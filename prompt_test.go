package sitecrawl_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevancePrompt(t *testing.T) {
	t.Parallel()

	prompt := sitecrawl.RelevancePrompt("Plans start at $10.", "Pricing", "find pricing")

	assert.Contains(t, prompt, "Page Title: Pricing")
	assert.Contains(t, prompt, "User Instructions: find pricing")
	assert.Contains(t, prompt, "Plans start at $10.")
	assert.Contains(t, prompt, `"relevance_score"`)
}

func TestExtractionPrompt(t *testing.T) {
	t.Parallel()

	t.Run("includes page details", func(t *testing.T) {
		t.Parallel()

		prompt := sitecrawl.ExtractionPrompt("body text", "Home", "https://example.com/", "find pricing")

		assert.Contains(t, prompt, "URL: https://example.com/")
		assert.Contains(t, prompt, "Page Title: Home")
		assert.Contains(t, prompt, `User Instructions: "find pricing"`)
		assert.Contains(t, prompt, "body text")
	})

	t.Run("truncates long page text", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("a", sitecrawl.MaxPromptTextLength) + strings.Repeat("b", 100)

		prompt := sitecrawl.ExtractionPrompt(text, "Home", "https://example.com/", "x")

		assert.Contains(t, prompt, strings.Repeat("a", sitecrawl.MaxPromptTextLength)+"...")
		assert.NotContains(t, prompt, "bbbb")
	})
}

func TestParseRelevance(t *testing.T) {
	t.Parallel()

	t.Run("parses score and reasoning", func(t *testing.T) {
		t.Parallel()

		r, err := sitecrawl.ParseRelevance(`{"relevance_score": 0.8, "reasoning": "about pricing"}`)

		require.NoError(t, err)
		assert.InDelta(t, 0.8, r.Score, 1e-9)
		assert.Equal(t, "about pricing", r.Reason)
	})

	t.Run("tolerates code fences", func(t *testing.T) {
		t.Parallel()

		r, err := sitecrawl.ParseRelevance("```json\n{\"relevance_score\": 0.4, \"reasoning\": \"partly\"}\n```")

		require.NoError(t, err)
		assert.InDelta(t, 0.4, r.Score, 1e-9)
	})

	t.Run("clamps out of range scores", func(t *testing.T) {
		t.Parallel()

		r, err := sitecrawl.ParseRelevance(`{"relevance_score": 3}`)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, r.Score, 1e-9)
		assert.Equal(t, "No reasoning provided", r.Reason)
	})

	t.Run("defaults a missing score", func(t *testing.T) {
		t.Parallel()

		r, err := sitecrawl.ParseRelevance(`{"reasoning": "unsure"}`)

		require.NoError(t, err)
		assert.InDelta(t, 0.5, r.Score, 1e-9)
	})

	t.Run("rejects responses without JSON", func(t *testing.T) {
		t.Parallel()

		_, err := sitecrawl.ParseRelevance("I cannot help with that.")

		require.Error(t, err)
		assert.Equal(t, sitecrawl.EPROCESSING, sitecrawl.ErrorCode(err))
	})
}

func TestParseExtraction(t *testing.T) {
	t.Parallel()

	t.Run("parses summary, key points and data", func(t *testing.T) {
		t.Parallel()

		c, err := sitecrawl.ParseExtraction(`{
			"summary": "Pricing page.",
			"key_points": ["a", "b", "c", "d", "e", "f"],
			"extracted_data": {"plans": 3}
		}`)

		require.NoError(t, err)
		assert.Equal(t, "Pricing page.", c.Summary)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.KeyPoints)
		assert.InDelta(t, 3.0, c.ExtractedData["plans"], 1e-9)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := sitecrawl.ParseExtraction(`{"summary": }`)

		require.Error(t, err)
		assert.Equal(t, sitecrawl.EPROCESSING, sitecrawl.ErrorCode(err))
	})
}
