package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecrawl.CrawlService = (*CrawlService)(nil)

// CrawlService implements sitecrawl.CrawlService using SQLite.
type CrawlService struct {
	db *DB
}

// NewCrawlService creates a new CrawlService.
func NewCrawlService(db *DB) *CrawlService {
	return &CrawlService{db: db}
}

// CreateCrawl stores a crawl record.
func (s *CrawlService) CreateCrawl(ctx context.Context, crawl *sitecrawl.Crawl) error {
	if err := crawl.Validate(); err != nil {
		return err
	}

	crawl.ID = uuid.New().String()
	crawl.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawls (id, url, instructions, depth, pages_crawled, pages_failed, documents, time_taken, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, crawl.ID, crawl.URL, crawl.Instructions, crawl.Depth, crawl.PagesCrawled, crawl.PagesFailed,
		crawl.Documents, crawl.TimeTaken, crawl.CreatedAt.Format(time.RFC3339))

	return err
}

// FindCrawls retrieves crawls matching the filter, newest first.
func (s *CrawlService) FindCrawls(ctx context.Context, filter sitecrawl.CrawlFilter) ([]*sitecrawl.Crawl, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, url, instructions, depth, pages_crawled, pages_failed, documents, time_taken, created_at
		FROM crawls WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crawls []*sitecrawl.Crawl
	for rows.Next() {
		crawl, err := scanCrawl(rows)
		if err != nil {
			return nil, err
		}
		crawls = append(crawls, crawl)
	}

	return crawls, rows.Err()
}

// DeleteCrawl removes a crawl. Its documents are removed by cascade.
func (s *CrawlService) DeleteCrawl(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM crawls WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitecrawl.Errorf(sitecrawl.ENOTFOUND, "crawl not found")
	}

	return nil
}

func scanCrawl(rows *sql.Rows) (*sitecrawl.Crawl, error) {
	var crawl sitecrawl.Crawl
	var createdAt string

	if err := rows.Scan(&crawl.ID, &crawl.URL, &crawl.Instructions, &crawl.Depth, &crawl.PagesCrawled,
		&crawl.PagesFailed, &crawl.Documents, &crawl.TimeTaken, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if crawl.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &crawl, nil
}
