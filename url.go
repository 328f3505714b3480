package sitecrawl

import (
	"net/url"
	"strings"
)

// NormalizeURL resolves href against base and returns the absolute URL with
// its fragment removed. The bool result is false for links that cannot be
// crawled: malformed input, schemes other than http and https (mailto:,
// javascript:, tel:, ...), and URLs without a host. Callers discard those.
func NormalizeURL(base, href string) (string, bool) {
	href = strings.TrimSpace(href)

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	u := b.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}

// Domain returns the authority (host and optional port) of rawURL.
// It returns an empty string if rawURL cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
