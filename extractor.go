package sitecrawl

import "context"

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// ContentExtractor strips boilerplate from HTML pages.
type ContentExtractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// StructuredExtractor pulls a summary, key points and free-form data out of
// a page according to the user's instructions. It is only invoked for pages
// that pass the relevance threshold.
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, html, title, url, instructions string) (*ExtractedContent, error)
}

// Converter turns cleaned HTML, usually the output of a ContentExtractor,
// into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
