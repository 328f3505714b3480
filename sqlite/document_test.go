package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocs() []*sitecrawl.RagDocument {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	meta := func(url string, index *int) sitecrawl.RagMetadata {
		return sitecrawl.RagMetadata{
			SourceURL:      url,
			SourceTitle:    "Title of " + url,
			ChunkIndex:     index,
			RelevanceScore: 0.8,
			Timestamp:      ts,
		}
	}
	zero, one := 0, 1
	return []*sitecrawl.RagDocument{
		{ChunkType: sitecrawl.ChunkSummary, Content: "summary", Metadata: meta("https://example.com/a", nil)},
		{ChunkType: sitecrawl.ChunkKeyPoint, Content: "point", Metadata: meta("https://example.com/a", &zero)},
		{ChunkType: sitecrawl.ChunkContent, Content: "chunk 0", Metadata: meta("https://example.com/a", &zero)},
		{ChunkType: sitecrawl.ChunkContent, Content: "chunk 1", Metadata: meta("https://example.com/a", &one)},
		{ChunkType: sitecrawl.ChunkSummary, Content: "other", Metadata: meta("https://example.com/b", nil)},
	}
}

func TestDocumentService_CreateDocuments(t *testing.T) {
	t.Parallel()

	t.Run("stores documents in order with metadata", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		crawl := createTestCrawl(t, db, "https://example.com")
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateDocuments(ctx, crawl.ID, sampleDocs()))

		docs, err := svc.FindDocuments(ctx, sitecrawl.DocumentFilter{CrawlID: &crawl.ID})
		require.NoError(t, err)
		require.Len(t, docs, 5)
		for i, doc := range docs {
			assert.Equal(t, i, doc.Position)
			assert.Equal(t, crawl.ID, doc.CrawlID)
			assert.NotEmpty(t, doc.ID)
			assert.Len(t, doc.ContentHash, 16)
		}
		assert.Equal(t, sitecrawl.ChunkSummary, docs[0].ChunkType)
		assert.Nil(t, docs[0].Metadata.ChunkIndex)
		require.NotNil(t, docs[3].Metadata.ChunkIndex)
		assert.Equal(t, 1, *docs[3].Metadata.ChunkIndex)
		assert.Equal(t, "chunk 1", docs[3].Content)
		assert.Equal(t, "Title of https://example.com/a", docs[3].Metadata.SourceTitle)
		assert.InDelta(t, 0.8, docs[3].Metadata.RelevanceScore, 1e-9)
		assert.True(t, docs[3].Metadata.Timestamp.Equal(time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)))
	})

	t.Run("identical content gets identical hashes", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		crawl := createTestCrawl(t, db, "https://example.com")
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()
		docs := sampleDocs()
		docs[4].Content = docs[0].Content

		require.NoError(t, svc.CreateDocuments(ctx, crawl.ID, docs))

		stored, err := svc.FindDocuments(ctx, sitecrawl.DocumentFilter{CrawlID: &crawl.ID})
		require.NoError(t, err)
		assert.Equal(t, stored[0].ContentHash, stored[4].ContentHash)
		assert.NotEqual(t, stored[0].ContentHash, stored[1].ContentHash)
	})

	t.Run("returns not found for unknown crawl", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.CreateDocuments(context.Background(), "missing", sampleDocs())

		require.Error(t, err)
		assert.Equal(t, sitecrawl.ENOTFOUND, sitecrawl.ErrorCode(err))
	})

	t.Run("rejects invalid documents without storing any", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		crawl := createTestCrawl(t, db, "https://example.com")
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()
		docs := append(sampleDocs(), &sitecrawl.RagDocument{ChunkType: "bogus"})

		err := svc.CreateDocuments(ctx, crawl.ID, docs)

		require.Error(t, err)
		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
		stored, err := svc.FindDocuments(ctx, sitecrawl.DocumentFilter{CrawlID: &crawl.ID})
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*sqlite.DocumentService, *sitecrawl.Crawl) {
		t.Helper()
		db := setupTestDB(t)
		crawl := createTestCrawl(t, db, "https://example.com")
		svc := sqlite.NewDocumentService(db)
		require.NoError(t, svc.CreateDocuments(context.Background(), crawl.ID, sampleDocs()))
		return svc, crawl
	}

	t.Run("filters by source url", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup(t)
		url := "https://example.com/b"

		docs, err := svc.FindDocuments(context.Background(), sitecrawl.DocumentFilter{SourceURL: &url})

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "other", docs[0].Content)
	})

	t.Run("filters by chunk type", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup(t)
		chunkType := sitecrawl.ChunkContent

		docs, err := svc.FindDocuments(context.Background(), sitecrawl.DocumentFilter{ChunkType: &chunkType})

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "chunk 0", docs[0].Content)
		assert.Equal(t, "chunk 1", docs[1].Content)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc, crawl := setup(t)

		docs, err := svc.FindDocuments(context.Background(), sitecrawl.DocumentFilter{
			CrawlID: &crawl.ID,
			Limit:   2,
			Offset:  1,
		})

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, 1, docs[0].Position)
		assert.Equal(t, 2, docs[1].Position)
	})
}
