package goquery

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

const (
	minParagraphLength = 50
	minListItemLength  = 10
	maxKeyPoints       = 5
	maxParagraphs      = 10
	maxListItems       = 20
)

var _ sitecrawl.StructuredExtractor = (*BasicExtractor)(nil)

// BasicExtractor builds structured content from the page markup alone.
// It is used when no model is available or a model call fails.
type BasicExtractor struct{}

// NewBasicExtractor creates a new BasicExtractor.
func NewBasicExtractor() *BasicExtractor {
	return &BasicExtractor{}
}

// ExtractStructured implements sitecrawl.StructuredExtractor. The summary
// counts substantial paragraphs and headings, and the first headings become
// key points. Instructions are ignored.
func (e *BasicExtractor) ExtractStructured(_ context.Context, html, title, _, _ string) (*sitecrawl.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "failed to parse HTML: %v", err)
	}

	paragraphs := collect(doc.Find("p"), minParagraphLength)
	headings := collect(doc.Find("h1, h2, h3"), 0)
	listItems := collect(doc.Find("li"), minListItemLength)

	return &sitecrawl.ExtractedContent{
		Summary:   fmt.Sprintf("Page titled '%s' with %d paragraphs and %d headings.", title, len(paragraphs), len(headings)),
		KeyPoints: head(headings, maxKeyPoints),
		ExtractedData: map[string]any{
			"paragraph_count": len(paragraphs),
			"heading_count":   len(headings),
			"link_count":      doc.Find("a[href]").Length(),
			"paragraphs":      head(paragraphs, maxParagraphs),
			"list_items":      head(listItems, maxListItems),
		},
	}, nil
}

// collect returns the trimmed text of every element longer than minLength
// characters.
func collect(sel *goquery.Selection, minLength int) []string {
	out := []string{}
	sel.Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t == "" || utf8.RuneCountInString(t) <= minLength {
			return
		}
		out = append(out, t)
	})
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
