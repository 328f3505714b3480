package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/fs"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	filter := sitecrawl.DocumentFilter{Limit: c.Limit}

	if c.ChunkType != "" {
		ct := sitecrawl.ChunkType(c.ChunkType)
		switch ct {
		case sitecrawl.ChunkSummary, sitecrawl.ChunkKeyPoint, sitecrawl.ChunkContent:
		default:
			fmt.Fprintf(deps.Stderr, "error: unknown chunk type %q\n", c.ChunkType)
			return sitecrawl.Errorf(sitecrawl.EINVALID, "unknown chunk type %q", c.ChunkType)
		}
		filter.ChunkType = &ct
	}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	crawlID := c.Crawl
	if crawlID == "" && c.URL == "" {
		latest, err := deps.Crawls.FindCrawls(deps.Ctx, sitecrawl.CrawlFilter{Limit: 1})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
			return err
		}
		if len(latest) == 0 {
			fmt.Fprintln(deps.Stderr, "error: no crawls stored. Use 'sitecrawl crawl --db' to store one.")
			return sitecrawl.Errorf(sitecrawl.ENOTFOUND, "no crawls stored")
		}
		crawlID = latest[0].ID
	}
	if crawlID != "" {
		filter.CrawlID = &crawlID
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found.")
		return nil
	}

	if c.Full {
		rag := make([]*sitecrawl.RagDocument, len(docs))
		for i, doc := range docs {
			rag[i] = &doc.RagDocument
		}
		return fs.WriteJSONL(deps.Stdout, rag)
	}

	fmt.Fprintf(deps.Stdout, "Documents (%d total):\n\n", len(docs))
	for i, doc := range docs {
		title := doc.Metadata.SourceTitle
		if title == "" {
			title = doc.Metadata.SourceURL
		}
		label := string(doc.ChunkType)
		if doc.Metadata.ChunkIndex != nil {
			label = fmt.Sprintf("%s #%d", label, *doc.Metadata.ChunkIndex)
		}
		fmt.Fprintf(deps.Stdout, "  %d. [%s] %s (%s)\n     %s\n", i+1, label, title,
			crawl.FormatScore(doc.Metadata.RelevanceScore), doc.Metadata.SourceURL)
	}

	return nil
}
