package mock

import (
	"context"

	"github.com/fwojciec/sitecrawl"
)

var _ sitecrawl.CrawlService = (*CrawlService)(nil)

// CrawlService is a mock implementation of sitecrawl.CrawlService.
type CrawlService struct {
	CreateCrawlFn func(ctx context.Context, crawl *sitecrawl.Crawl) error
	FindCrawlsFn  func(ctx context.Context, filter sitecrawl.CrawlFilter) ([]*sitecrawl.Crawl, error)
	DeleteCrawlFn func(ctx context.Context, id string) error
}

func (s *CrawlService) CreateCrawl(ctx context.Context, crawl *sitecrawl.Crawl) error {
	return s.CreateCrawlFn(ctx, crawl)
}

func (s *CrawlService) FindCrawls(ctx context.Context, filter sitecrawl.CrawlFilter) ([]*sitecrawl.Crawl, error) {
	return s.FindCrawlsFn(ctx, filter)
}

func (s *CrawlService) DeleteCrawl(ctx context.Context, id string) error {
	return s.DeleteCrawlFn(ctx, id)
}

var _ sitecrawl.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of sitecrawl.DocumentService.
type DocumentService struct {
	CreateDocumentsFn func(ctx context.Context, crawlID string, docs []*sitecrawl.RagDocument) error
	FindDocumentsFn   func(ctx context.Context, filter sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error)
}

func (s *DocumentService) CreateDocuments(ctx context.Context, crawlID string, docs []*sitecrawl.RagDocument) error {
	return s.CreateDocumentsFn(ctx, crawlID, docs)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error) {
	return s.FindDocumentsFn(ctx, filter)
}
