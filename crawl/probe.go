package crawl

import (
	"context"
	"log/slog"

	"github.com/fwojciec/sitecrawl"
)

// ProbeFetcher decides whether a site needs JavaScript rendering by fetching
// probeURL with both fetchers:
//
//  1. If the static fetch fails, use the browser.
//  2. If the browser fetch fails, use static.
//  3. Otherwise use the browser only when its main content is much larger.
//
// The logger may be nil.
func ProbeFetcher(ctx context.Context, probeURL string, static, browser sitecrawl.Fetcher, extractor sitecrawl.ContentExtractor, logger *slog.Logger) sitecrawl.Fetcher {
	choose := func(f sitecrawl.Fetcher, reason string) sitecrawl.Fetcher {
		if logger != nil {
			name := "static"
			if f == browser {
				name = "browser"
			}
			logger.Info("fetcher selected", "url", probeURL, "fetcher", name, "reason", reason)
		}
		return f
	}

	staticHTML, err := static.Fetch(ctx, probeURL)
	if err != nil {
		return choose(browser, "static fetch failed")
	}

	renderedHTML, err := browser.Fetch(ctx, probeURL)
	if err != nil {
		return choose(static, "browser fetch failed")
	}

	if ContentDiffers(staticHTML, renderedHTML, extractor) {
		return choose(browser, "rendered content differs")
	}
	return choose(static, "static content complete")
}

// ContentDiffers compares the main content of statically fetched HTML with
// browser-rendered HTML. It returns true if the rendered content is more than
// 50% longer, or if extraction fails.
func ContentDiffers(staticHTML, renderedHTML string, extractor sitecrawl.ContentExtractor) bool {
	staticResult, err := extractor.Extract(staticHTML)
	if err != nil {
		return true
	}

	renderedResult, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true
	}

	staticLen := len(staticResult.ContentHTML)
	renderedLen := len(renderedResult.ContentHTML)

	if staticLen == 0 && renderedLen > 0 {
		return true
	}

	return float64(renderedLen) > float64(staticLen)*1.5
}
