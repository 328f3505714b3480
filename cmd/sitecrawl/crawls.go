package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
)

// Run executes the crawls command.
func (c *CrawlsCmd) Run(deps *Dependencies) error {
	filter := sitecrawl.CrawlFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	crawls, err := deps.Crawls.FindCrawls(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if len(crawls) == 0 {
		fmt.Fprintln(deps.Stdout, "No crawls found. Use 'sitecrawl crawl --db' to store one.")
		return nil
	}

	for _, cr := range crawls {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  pages=%d failed=%d docs=%d  %s\n",
			cr.ID, cr.CreatedAt.Format("2006-01-02 15:04"), cr.URL,
			cr.PagesCrawled, cr.PagesFailed, cr.Documents, crawl.FormatSeconds(cr.TimeTaken))
	}

	return nil
}
