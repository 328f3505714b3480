package sitecrawl

import (
	"context"
	"time"
)

// Crawl is a stored record of a finished crawl.
type Crawl struct {
	ID           string
	URL          string
	Instructions string
	Depth        int
	PagesCrawled int
	PagesFailed  int
	Documents    int
	TimeTaken    float64
	CreatedAt    time.Time
}

// Validate returns an error if the crawl contains invalid fields.
func (c *Crawl) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "crawl url required")
	}
	return nil
}

// NewCrawl builds a Crawl record from a crawl result.
func NewCrawl(result *CrawlResult, documents int) *Crawl {
	return &Crawl{
		URL:          result.Meta.URL,
		Instructions: result.Meta.Instructions,
		Depth:        result.Meta.Depth,
		PagesCrawled: result.Meta.PagesCrawled,
		PagesFailed:  len(result.Failed()),
		Documents:    documents,
		TimeTaken:    result.Meta.TimeTaken,
	}
}

// CrawlFilter represents a filter for FindCrawls.
type CrawlFilter struct {
	ID    *string
	URL   *string
	Limit int
}

// CrawlService represents a service for managing stored crawls.
type CrawlService interface {
	// CreateCrawl stores a crawl and assigns its ID and CreatedAt.
	CreateCrawl(ctx context.Context, crawl *Crawl) error

	// FindCrawls retrieves crawls matching the filter, newest first.
	FindCrawls(ctx context.Context, filter CrawlFilter) ([]*Crawl, error)

	// DeleteCrawl removes a crawl and its documents.
	DeleteCrawl(ctx context.Context, id string) error
}

// StoredDocument is a RagDocument persisted as part of a crawl.
type StoredDocument struct {
	ID          string
	CrawlID     string
	Position    int
	ContentHash string
	RagDocument
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	CrawlID   *string
	SourceURL *string
	ChunkType *ChunkType
	Limit     int
	Offset    int
}

// DocumentService represents a service for managing stored RAG documents.
type DocumentService interface {
	// CreateDocuments stores docs for a crawl, preserving their order.
	CreateDocuments(ctx context.Context, crawlID string, docs []*RagDocument) error

	// FindDocuments retrieves documents matching the filter in stored order.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*StoredDocument, error)
}
