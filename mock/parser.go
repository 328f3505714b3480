package mock

import "github.com/fwojciec/sitecrawl"

var _ sitecrawl.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of sitecrawl.PageParser.
type PageParser struct {
	ParseFn func(html, pageURL string) (*sitecrawl.ParsedPage, error)
}

func (p *PageParser) Parse(html, pageURL string) (*sitecrawl.ParsedPage, error) {
	return p.ParseFn(html, pageURL)
}
