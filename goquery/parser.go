// Package goquery implements HTML parsing and heuristic content extraction
// using github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.PageParser = (*Parser)(nil)

// Parser extracts the title, outbound links and visible text of a page.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements sitecrawl.PageParser.
//
// The title is taken from <title>, then the first <h1>, then
// sitecrawl.NoTitle. Links are resolved against pageURL, stripped of
// fragments and de-duplicated in document order; non-HTTP(S) links are
// dropped.
func (p *Parser) Parse(html, pageURL string) (*sitecrawl.ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitecrawl.Errorf(sitecrawl.EPROCESSING, "failed to parse HTML: %v", err)
	}

	return &sitecrawl.ParsedPage{
		Title: title(doc),
		Links: links(doc, pageURL),
		Text:  text(doc),
	}, nil
}

func title(doc *goquery.Document) string {
	if t := cleanText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := cleanText(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return sitecrawl.NoTitle
}

func links(doc *goquery.Document, pageURL string) []string {
	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		normalized, ok := sitecrawl.NormalizeURL(pageURL, href)
		if !ok {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		links = append(links, normalized)
	})
	return links
}

// text returns the visible text of the body, one non-empty line per line of
// source text with inner whitespace collapsed.
func text(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	body = body.Clone()
	body.Find("script, style, noscript, template, svg").Remove()

	var lines []string
	for line := range strings.SplitSeq(body.Text(), "\n") {
		if line = cleanText(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// cleanText collapses whitespace runs into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
