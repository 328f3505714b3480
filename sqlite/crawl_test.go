package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCrawl(t *testing.T, db *sqlite.DB, url string) *sitecrawl.Crawl {
	t.Helper()
	svc := sqlite.NewCrawlService(db)
	crawl := &sitecrawl.Crawl{
		URL:          url,
		Instructions: "find docs",
		Depth:        1,
		PagesCrawled: 3,
		PagesFailed:  1,
		Documents:    7,
		TimeTaken:    2.5,
	}
	require.NoError(t, svc.CreateCrawl(context.Background(), crawl))
	return crawl
}

func TestCrawlService_CreateCrawl(t *testing.T) {
	t.Parallel()

	t.Run("assigns id and creation time", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		crawl := createTestCrawl(t, db, "https://example.com")

		assert.NotEmpty(t, crawl.ID)
		assert.False(t, crawl.CreatedAt.IsZero())
	})

	t.Run("rejects a crawl without url", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)

		err := svc.CreateCrawl(context.Background(), &sitecrawl.Crawl{})

		require.Error(t, err)
		assert.Equal(t, sitecrawl.EINVALID, sitecrawl.ErrorCode(err))
	})

	t.Run("round trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)
		crawl := createTestCrawl(t, db, "https://example.com")

		found, err := svc.FindCrawls(context.Background(), sitecrawl.CrawlFilter{ID: &crawl.ID})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, crawl.URL, found[0].URL)
		assert.Equal(t, "find docs", found[0].Instructions)
		assert.Equal(t, 1, found[0].Depth)
		assert.Equal(t, 3, found[0].PagesCrawled)
		assert.Equal(t, 1, found[0].PagesFailed)
		assert.Equal(t, 7, found[0].Documents)
		assert.InDelta(t, 2.5, found[0].TimeTaken, 1e-9)
		assert.True(t, crawl.CreatedAt.Equal(found[0].CreatedAt))
	})
}

func TestCrawlService_FindCrawls(t *testing.T) {
	t.Parallel()

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)
		first := createTestCrawl(t, db, "https://a.example.com")
		second := createTestCrawl(t, db, "https://b.example.com")

		found, err := svc.FindCrawls(context.Background(), sitecrawl.CrawlFilter{})

		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, second.ID, found[0].ID)
		assert.Equal(t, first.ID, found[1].ID)
	})

	t.Run("filters by url", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)
		createTestCrawl(t, db, "https://a.example.com")
		want := createTestCrawl(t, db, "https://b.example.com")
		url := "https://b.example.com"

		found, err := svc.FindCrawls(context.Background(), sitecrawl.CrawlFilter{URL: &url})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, want.ID, found[0].ID)
	})

	t.Run("applies limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)
		for range 3 {
			createTestCrawl(t, db, "https://example.com")
		}

		found, err := svc.FindCrawls(context.Background(), sitecrawl.CrawlFilter{Limit: 2})

		require.NoError(t, err)
		assert.Len(t, found, 2)
	})
}

func TestCrawlService_DeleteCrawl(t *testing.T) {
	t.Parallel()

	t.Run("removes the crawl and its documents", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		crawls := sqlite.NewCrawlService(db)
		docs := sqlite.NewDocumentService(db)
		ctx := context.Background()
		crawl := createTestCrawl(t, db, "https://example.com")
		require.NoError(t, docs.CreateDocuments(ctx, crawl.ID, sampleDocs()))

		require.NoError(t, crawls.DeleteCrawl(ctx, crawl.ID))

		found, err := crawls.FindCrawls(ctx, sitecrawl.CrawlFilter{})
		require.NoError(t, err)
		assert.Empty(t, found)
		stored, err := docs.FindDocuments(ctx, sitecrawl.DocumentFilter{CrawlID: &crawl.ID})
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewCrawlService(db)

		err := svc.DeleteCrawl(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, sitecrawl.ENOTFOUND, sitecrawl.ErrorCode(err))
	})
}
