package openai

import (
	"context"

	"github.com/fwojciec/sitecrawl"
	"github.com/openai/openai-go/v3"
)

// Ensure Extractor implements sitecrawl.StructuredExtractor at compile time.
var _ sitecrawl.StructuredExtractor = (*Extractor)(nil)

// Extractor extracts structured content from pages with an OpenAI chat
// model. The page is reduced to its visible text before it is sent.
type Extractor struct {
	client *openai.Client
	model  string
	parser sitecrawl.PageParser
}

// NewExtractor creates a new Extractor. An empty model selects DefaultModel.
func NewExtractor(client *openai.Client, model string, parser sitecrawl.PageParser) *Extractor {
	return &Extractor{client: client, model: modelOrDefault(model), parser: parser}
}

// ExtractStructured implements sitecrawl.StructuredExtractor.
func (e *Extractor) ExtractStructured(ctx context.Context, html, title, url, instructions string) (*sitecrawl.ExtractedContent, error) {
	page, err := e.parser.Parse(html, url)
	if err != nil {
		return nil, err
	}

	text, err := complete(ctx, e.client, e.model, sitecrawl.ExtractionSystemPrompt, sitecrawl.ExtractionPrompt(page.Text, title, url, instructions), extractionMaxTokens)
	if err != nil {
		return nil, err
	}
	return sitecrawl.ParseExtraction(text)
}
