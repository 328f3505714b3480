package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitecrawl"
	main "github.com/fwojciec/sitecrawl/cmd/sitecrawl"
	"github.com/fwojciec/sitecrawl/crawl"
	"github.com/fwojciec/sitecrawl/mock"
	"github.com/fwojciec/sitecrawl/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDeps returns Dependencies whose crawler serves two linked pages.
func testDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	links := map[string][]string{
		"https://example.com":   {"https://example.com/a"},
		"https://example.com/a": nil,
	}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Crawler: &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if _, ok := links[url]; !ok {
						return "", sitecrawl.Errorf(sitecrawl.EFETCH, "HTTP 404 for %s", url)
					}
					return "<html></html>", nil
				},
			},
			Parser: &mock.PageParser{
				ParseFn: func(_, pageURL string) (*sitecrawl.ParsedPage, error) {
					return &sitecrawl.ParsedPage{Title: "Page " + pageURL, Links: links[pageURL], Text: "Body of " + pageURL}, nil
				},
			},
			Extractor: &mock.StructuredExtractor{
				ExtractStructuredFn: func(_ context.Context, _, title, _, _ string) (*sitecrawl.ExtractedContent, error) {
					return &sitecrawl.ExtractedContent{Summary: "About " + title, KeyPoints: []string{"one"}}, nil
				},
			},
		},
		Chunker: rag.DefaultChunker(),
	}
}

func crawlCmd(format string) *main.CrawlCmd {
	return &main.CrawlCmd{
		URL:         "https://example.com",
		Depth:       1,
		MaxPages:    20,
		Concurrency: 2,
		Format:      format,
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints results to stdout and the summary to stderr", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)

		err := crawlCmd("markdown").Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Crawler Results: https://example.com")
		assert.Contains(t, stdout.String(), "About Page https://example.com/a")
		assert.Contains(t, stderr.String(), "Crawled 2 pages (0 failed)")
		assert.Contains(t, stderr.String(), "Relevant pages: 2")
		assert.Contains(t, stderr.String(), "RAG documents: 6")
	})

	t.Run("reports progress for every page", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)

		require.NoError(t, crawlCmd("json").Run(deps))

		assert.Contains(t, stderr.String(), "[1/20] https://example.com")
		assert.Contains(t, stderr.String(), "[2/20] https://example.com/a")
	})

	t.Run("writes the output file atomically", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		cmd := crawlCmd("rag")
		cmd.Output = filepath.Join(t.TempDir(), "out", "docs.jsonl")

		require.NoError(t, cmd.Run(deps))

		b, err := os.ReadFile(cmd.Output)
		require.NoError(t, err)
		assert.Equal(t, 6, bytes.Count(b, []byte("\n")))
		assert.Contains(t, stdout.String(), "Wrote "+cmd.Output)
	})

	t.Run("saves page markdown under the pages directory", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		cmd := crawlCmd("json")
		cmd.PagesDir = filepath.Join(t.TempDir(), "pages")

		require.NoError(t, cmd.Run(deps))

		_, err := os.Stat(filepath.Join(cmd.PagesDir, "example.com", "a.md"))
		assert.NoError(t, err)
	})

	t.Run("stores the crawl and documents", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		var stored *sitecrawl.Crawl
		var storedDocs []*sitecrawl.RagDocument
		deps.Crawls = &mock.CrawlService{
			CreateCrawlFn: func(_ context.Context, c *sitecrawl.Crawl) error {
				c.ID = "crawl-1"
				stored = c
				return nil
			},
		}
		deps.Documents = &mock.DocumentService{
			CreateDocumentsFn: func(_ context.Context, crawlID string, docs []*sitecrawl.RagDocument) error {
				assert.Equal(t, "crawl-1", crawlID)
				storedDocs = docs
				return nil
			},
		}

		require.NoError(t, crawlCmd("json").Run(deps))

		require.NotNil(t, stored)
		assert.Equal(t, "https://example.com", stored.URL)
		assert.Equal(t, 2, stored.PagesCrawled)
		assert.Equal(t, 6, stored.Documents)
		assert.Len(t, storedDocs, 6)
		assert.Contains(t, stderr.String(), "Saved crawl crawl-1")
	})

	t.Run("reports the token estimate", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		deps.Tokens = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, texts ...string) (int, error) {
				assert.NotEmpty(t, texts)
				return 1500, nil
			},
		}

		require.NoError(t, crawlCmd("json").Run(deps))

		assert.Contains(t, stderr.String(), "RAG documents: 6 (~2k tokens)")
	})

	t.Run("returns storage errors", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		deps.Crawls = &mock.CrawlService{
			CreateCrawlFn: func(context.Context, *sitecrawl.Crawl) error { return errors.New("disk full") },
		}
		deps.Documents = &mock.DocumentService{}

		err := crawlCmd("json").Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "disk full")
	})

	t.Run("keeps partial results of a canceled crawl", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		deps.Ctx = ctx
		saved := false
		deps.Crawls = &mock.CrawlService{
			CreateCrawlFn: func(ctx context.Context, c *sitecrawl.Crawl) error {
				assert.NoError(t, ctx.Err())
				saved = true
				return nil
			},
		}
		deps.Documents = &mock.DocumentService{
			CreateDocumentsFn: func(context.Context, string, []*sitecrawl.RagDocument) error { return nil },
		}

		require.NoError(t, crawlCmd("json").Run(deps))

		assert.True(t, saved)
		assert.Contains(t, stderr.String(), "Crawl cancelled")
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(&stdout, &stderr)

		err := crawlCmd("xml").Run(deps)

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})
}
