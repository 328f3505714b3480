package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fwojciec/sitecrawl"
	main "github.com/fwojciec/sitecrawl/cmd/sitecrawl"
	"github.com/fwojciec/sitecrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedDocs() []*sitecrawl.StoredDocument {
	zero := 0
	return []*sitecrawl.StoredDocument{
		{ID: "doc-1", CrawlID: "crawl-1", RagDocument: sitecrawl.RagDocument{
			ChunkType: sitecrawl.ChunkSummary,
			Content:   "A summary.",
			Metadata:  sitecrawl.RagMetadata{SourceURL: "https://example.com/a", SourceTitle: "Page A", RelevanceScore: 0.9},
		}},
		{ID: "doc-2", CrawlID: "crawl-1", Position: 1, RagDocument: sitecrawl.RagDocument{
			ChunkType: sitecrawl.ChunkContent,
			Content:   "Body text.",
			Metadata:  sitecrawl.RagMetadata{SourceURL: "https://example.com/a", ChunkIndex: &zero, RelevanceScore: 0.9},
		}},
	}
}

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents of the latest crawl", func(t *testing.T) {
		t.Parallel()

		crawls := &mock.CrawlService{
			FindCrawlsFn: func(_ context.Context, filter sitecrawl.CrawlFilter) ([]*sitecrawl.Crawl, error) {
				assert.Equal(t, 1, filter.Limit)
				return []*sitecrawl.Crawl{{ID: "crawl-1"}}, nil
			},
		}
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error) {
				require.NotNil(t, filter.CrawlID)
				assert.Equal(t, "crawl-1", *filter.CrawlID)
				return storedDocs(), nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       context.Background(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Crawls:    crawls,
			Documents: documents,
		}

		err := (&main.DocsCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Documents (2 total)")
		assert.Contains(t, output, "[summary] Page A (0.90)")
		assert.Contains(t, output, "[content #0] https://example.com/a")
	})

	t.Run("filters by url and chunk type without a crawl lookup", func(t *testing.T) {
		t.Parallel()

		var got sitecrawl.DocumentFilter
		documents := &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error) {
				got = filter
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: documents}

		err := (&main.DocsCmd{URL: "https://example.com/a", ChunkType: "content", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.SourceURL)
		assert.Equal(t, "https://example.com/a", *got.SourceURL)
		require.NotNil(t, got.ChunkType)
		assert.Equal(t, sitecrawl.ChunkContent, *got.ChunkType)
		assert.Nil(t, got.CrawlID)
		assert.Equal(t, 5, got.Limit)
		assert.Contains(t, stdout.String(), "No documents found")
	})

	t.Run("prints json lines with --full", func(t *testing.T) {
		t.Parallel()

		documents := &mock.DocumentService{
			FindDocumentsFn: func(context.Context, sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error) {
				return storedDocs(), nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: documents}

		err := (&main.DocsCmd{Crawl: "crawl-1", Full: true}).Run(deps)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 2)
		var doc sitecrawl.RagDocument
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &doc))
		assert.Equal(t, "Body text.", doc.Content)
	})

	t.Run("returns not found when no crawls are stored", func(t *testing.T) {
		t.Parallel()

		crawls := &mock.CrawlService{
			FindCrawlsFn: func(context.Context, sitecrawl.CrawlFilter) ([]*sitecrawl.Crawl, error) {
				return nil, nil
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Crawls: crawls}

		err := (&main.DocsCmd{}).Run(deps)

		assert.Equal(t, sitecrawl.ENOTFOUND, sitecrawl.ErrorCode(err))
		assert.Contains(t, stderr.String(), "no crawls stored")
	})

	t.Run("rejects unknown chunk types", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

		err := (&main.DocsCmd{ChunkType: "heading"}).Run(deps)

		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})
}
