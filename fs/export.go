package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/nao1215/markdown"
)

// MaxReportLinks is the number of links listed per page in a Markdown report.
const MaxReportLinks = 10

// WriteJSON writes the whole crawl result as indented JSON.
func WriteJSON(w io.Writer, result *sitecrawl.CrawlResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteJSONL writes one RAG document per line.
func WriteJSONL(w io.Writer, docs []*sitecrawl.RagDocument) error {
	enc := json.NewEncoder(w)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

// WriteMarkdown writes a human-readable report of the crawl.
func WriteMarkdown(w io.Writer, result *sitecrawl.CrawlResult) error {
	md := markdown.NewMarkdown(w)
	writeHeader(md, &result.Meta)
	for i, page := range result.Pages {
		writePage(md, i+1, page)
	}
	return md.Build()
}

func writeHeader(md *markdown.Markdown, meta *sitecrawl.CrawlMeta) {
	md.H1("Crawler Results: " + meta.URL)
	md.PlainText("")

	instructions := meta.Instructions
	if instructions == "" {
		instructions = "(none)"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Instructions", instructions},
			{"Depth", fmt.Sprint(meta.Depth)},
			{"Max Pages", fmt.Sprint(meta.MaxPages)},
			{"Pages Crawled", fmt.Sprint(meta.PagesCrawled)},
			{"Time Taken", fmt.Sprintf("%.2fs", meta.TimeTaken)},
			{"Timestamp", meta.Timestamp.UTC().Format(time.RFC3339)},
		},
	})
	md.PlainText("")
	if meta.Cancelled {
		md.Warningf("Crawl was cancelled after %d pages.", meta.PagesCrawled)
		md.PlainText("")
	}
}

func writePage(md *markdown.Markdown, n int, page *sitecrawl.PageResult) {
	title := page.Title
	if title == "" {
		title = "No Title"
	}
	md.H2(fmt.Sprintf("Page %d: %s", n, title))
	md.PlainText("")
	md.PlainText(markdown.Bold("URL:") + " " + page.URL)
	md.PlainText("")

	if page.Failed() {
		md.PlainText(markdown.Bold("Error:") + " " + page.Error)
		md.PlainText("")
		md.HorizontalRule()
		md.PlainText("")
		return
	}

	if page.Relevance != nil {
		md.PlainTextf("%s %.2f (%s)", markdown.Bold("Relevance:"), page.Relevance.Score, page.Relevance.Reason)
		md.PlainText("")
	}

	if c := page.ExtractedContent; c != nil {
		if c.Summary != "" {
			md.H3("Summary")
			md.PlainText("")
			md.PlainText(c.Summary)
			md.PlainText("")
		}
		if len(c.KeyPoints) > 0 {
			md.H3("Key Points")
			md.PlainText("")
			md.BulletList(c.KeyPoints...)
			md.PlainText("")
		}
		if len(c.ExtractedData) > 0 {
			md.H3("Extracted Data")
			md.PlainText("")
			items := make([]string, 0, len(c.ExtractedData))
			for _, k := range slices.Sorted(maps.Keys(c.ExtractedData)) {
				items = append(items, fmt.Sprintf("%s %v", markdown.Bold(k+":"), c.ExtractedData[k]))
			}
			md.BulletList(items...)
			md.PlainText("")
		}
	}

	if page.Markdown != "" {
		md.H3("Content")
		md.PlainText("")
		md.PlainText(page.Markdown)
		md.PlainText("")
	}

	if len(page.Links) > 0 {
		md.H3("Links")
		md.PlainText("")
		links := page.Links[:min(len(page.Links), MaxReportLinks)]
		items := make([]string, len(links))
		for i, link := range links {
			items[i] = markdown.Link(link, link)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
}
