package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/fs"
	"golang.org/x/sync/errgroup"
)

// request returns the CrawlRequest described by the flags.
func (c *CrawlCmd) request() sitecrawl.CrawlRequest {
	return sitecrawl.CrawlRequest{
		URL:                 c.URL,
		Instructions:        c.Instructions,
		MaxDepth:            c.Depth,
		FollowExternalLinks: c.FollowExternal,
		MaxPages:            c.MaxPages,
		Concurrency:         c.Concurrency,
	}
}

// validate checks every crawl setting that can be checked offline. It runs
// before any browser is launched or page fetched.
func (c *CrawlCmd) validate() error {
	req := c.request()
	if err := req.Validate(); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "threshold must be in [0, 1], got %v", c.Threshold)
	}
	if _, err := c.chunker(); err != nil {
		return err
	}
	_, err := fs.ParseFormat(c.Format)
	return err
}

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	format, err := fs.ParseFormat(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.request(), c.progress(deps.Stderr))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	docs := deps.Chunker.Chunk(result)

	// Exports ignore cancellation so a canceled crawl still saves its
	// partial results.
	ctx := context.WithoutCancel(deps.Ctx)
	var g errgroup.Group
	var savedCrawl *sitecrawl.Crawl
	var tokens int

	g.Go(func() error {
		if c.Output == "" {
			return fs.Export(deps.Stdout, format, result, docs)
		}
		return fs.WriteFile(c.Output, func(w io.Writer) error {
			return fs.Export(w, format, result, docs)
		})
	})

	if c.PagesDir != "" {
		g.Go(func() error {
			dir := filepath.Clean(c.PagesDir)
			return fs.NewPageStore(filepath.Dir(dir), filepath.Base(dir)).SaveAll(result)
		})
	}

	if deps.Crawls != nil && deps.Documents != nil {
		g.Go(func() error {
			record := sitecrawl.NewCrawl(result, len(docs))
			if err := deps.Crawls.CreateCrawl(ctx, record); err != nil {
				return fmt.Errorf("save crawl: %w", err)
			}
			if err := deps.Documents.CreateDocuments(ctx, record.ID, docs); err != nil {
				return fmt.Errorf("save documents: %w", err)
			}
			savedCrawl = record
			return nil
		})
	}

	if deps.Tokens != nil {
		g.Go(func() error {
			n, err := deps.Tokens.CountTokens(ctx, contents(docs)...)
			if err != nil {
				return fmt.Errorf("count tokens: %w", err)
			}
			tokens = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	summary := deps.Stdout
	if c.Output == "" {
		summary = deps.Stderr
	}
	c.printSummary(summary, result, docs, savedCrawl, tokens, deps.Tokens != nil)
	return nil
}

// progress renders crawl progress lines on w.
func (c *CrawlCmd) progress(w io.Writer) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(w, "[%d/%d] %s\n", e.Completed, e.Total, crawl.TruncateURL(e.URL, 60))
		case crawl.ProgressFailed:
			fmt.Fprintf(w, "[%d/%d] skip %s: %v\n", e.Completed, e.Total, crawl.TruncateURL(e.URL, 60), e.Error)
		}
	}
}

func (c *CrawlCmd) printSummary(w io.Writer, result *sitecrawl.CrawlResult, docs []*sitecrawl.RagDocument, saved *sitecrawl.Crawl, tokens int, counted bool) {
	relevant := 0
	for _, p := range result.Pages {
		if p.ExtractedContent != nil {
			relevant++
		}
	}

	if result.Meta.Cancelled {
		fmt.Fprintln(w, "Crawl cancelled; partial results kept")
	}
	fmt.Fprintf(w, "Crawled %d pages (%d failed) in %s\n",
		result.Meta.PagesCrawled, len(result.Failed()), crawl.FormatSeconds(result.Meta.TimeTaken))
	fmt.Fprintf(w, "Relevant pages: %d\n", relevant)
	if counted {
		fmt.Fprintf(w, "RAG documents: %d (%s)\n", len(docs), crawl.FormatTokens(tokens))
	} else {
		fmt.Fprintf(w, "RAG documents: %d\n", len(docs))
	}
	if saved != nil {
		fmt.Fprintf(w, "Saved crawl %s\n", saved.ID)
	}
	if c.Output != "" {
		fmt.Fprintf(w, "Wrote %s\n", c.Output)
	}
	if c.PagesDir != "" {
		fmt.Fprintf(w, "Wrote pages to %s\n", c.PagesDir)
	}
}

func contents(docs []*sitecrawl.RagDocument) []string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	return texts
}
