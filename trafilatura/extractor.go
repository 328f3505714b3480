// Package trafilatura removes page boilerplate using go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitecrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitecrawl.ContentExtractor at compile time.
var _ sitecrawl.ContentExtractor = (*Extractor)(nil)

// Extractor finds the main content of a page, dropping navigation, footers
// and comment sections.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
			IncludeLinks:    true,
		},
	}
}

// Extract implements sitecrawl.ContentExtractor.
func (e *Extractor) Extract(rawHTML string) (*sitecrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "extract main content: %v", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "render main content: %v", err)
		}
	}

	return &sitecrawl.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
