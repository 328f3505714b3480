package sitecrawl

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MaxPromptTextLength is the number of page text characters sent to a
	// model for structured extraction.
	MaxPromptTextLength = 8000

	// MaxKeyPoints caps the key points kept from a model response.
	MaxKeyPoints = 5

	// RelevanceSystemPrompt instructs a model to act as a relevance scorer.
	RelevanceSystemPrompt = "You are a content relevance analyzer. Respond with JSON only."

	// ExtractionSystemPrompt instructs a model to act as a content extractor.
	ExtractionSystemPrompt = "You are a precise web content extraction assistant. Respond with JSON only."
)

// RelevancePrompt builds the user prompt asking a model to score how well
// content matches instructions.
func RelevancePrompt(content, title, instructions string) string {
	var sb strings.Builder
	sb.WriteString("Rate how relevant this web page is to the user's instructions.\n\n")
	fmt.Fprintf(&sb, "Page Title: %s\n\n", title)
	fmt.Fprintf(&sb, "User Instructions: %s\n\n", instructions)
	fmt.Fprintf(&sb, "Page Content (excerpt):\n%s\n\n", content)
	sb.WriteString("Answer with a JSON object:\n")
	sb.WriteString(`{"relevance_score": <number from 0.0 to 1.0>, "reasoning": "<brief explanation>"}`)
	return sb.String()
}

// ExtractionPrompt builds the user prompt asking a model to extract
// structured content from page text. Text longer than MaxPromptTextLength
// characters is truncated.
func ExtractionPrompt(text, title, url, instructions string) string {
	if n := len([]rune(text)); n > MaxPromptTextLength {
		text = string([]rune(text)[:MaxPromptTextLength]) + "..."
	}

	var sb strings.Builder
	sb.WriteString("Extract information from this web page according to the user's instructions.\n\n")
	fmt.Fprintf(&sb, "URL: %s\n", url)
	fmt.Fprintf(&sb, "Page Title: %s\n", title)
	fmt.Fprintf(&sb, "User Instructions: %q\n\n", instructions)
	fmt.Fprintf(&sb, "Page Content:\n%s\n\n", text)
	sb.WriteString("Answer with a JSON object with these fields:\n")
	sb.WriteString(`- "summary": a 2-3 sentence summary of the page relevant to the instructions` + "\n")
	fmt.Fprintf(&sb, "- \"key_points\": up to %d key points relevant to the instructions\n", MaxKeyPoints)
	sb.WriteString(`- "extracted_data": an object with any specific data the instructions ask for` + "\n\n")
	sb.WriteString("Only include information explicitly found on the page.")
	return sb.String()
}

// ParseRelevance decodes a model's relevance answer. A missing score
// defaults to 0.5 and the score is clamped to [0, 1].
func ParseRelevance(raw string) (*Relevance, error) {
	var resp struct {
		Score     *float64 `json:"relevance_score"`
		Reasoning string   `json:"reasoning"`
	}
	if err := decodeModelJSON(raw, &resp); err != nil {
		return nil, err
	}

	r := &Relevance{Score: 0.5, Reason: resp.Reasoning}
	if resp.Score != nil {
		r.Score = ClampScore(*resp.Score)
	}
	if r.Reason == "" {
		r.Reason = "No reasoning provided"
	}
	return r, nil
}

// ParseExtraction decodes a model's extraction answer, keeping at most
// MaxKeyPoints key points.
func ParseExtraction(raw string) (*ExtractedContent, error) {
	var resp ExtractedContent
	if err := decodeModelJSON(raw, &resp); err != nil {
		return nil, err
	}
	if len(resp.KeyPoints) > MaxKeyPoints {
		resp.KeyPoints = resp.KeyPoints[:MaxKeyPoints]
	}
	return &resp, nil
}

// decodeModelJSON decodes the outermost JSON object in raw, tolerating
// Markdown code fences and surrounding prose.
func decodeModelJSON(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return Errorf(EPROCESSING, "model response contains no JSON object")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return Errorf(EPROCESSING, "invalid model response: %v", err)
	}
	return nil
}
