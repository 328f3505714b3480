package sitecrawl

// ParsedPage holds what the crawler needs from a page's HTML.
type ParsedPage struct {
	// Title is the <title> text, else the first <h1>, else NoTitle.
	Title string

	// Links are absolute, fragment-free http(s) URLs in document order,
	// without duplicates.
	Links []string

	// Text is the visible text of the page body.
	Text string
}

// PageParser extracts the title, outbound links and text of an HTML page.
type PageParser interface {
	// Parse parses html fetched from pageURL. Relative links are resolved
	// against pageURL.
	Parse(html, pageURL string) (*ParsedPage, error)
}
