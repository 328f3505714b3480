package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitecrawl.DocumentService = (*DocumentService)(nil)

// DocumentService implements sitecrawl.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}

// CreateDocuments stores docs for a crawl in a single transaction.
func (s *DocumentService) CreateDocuments(ctx context.Context, crawlID string, docs []*sitecrawl.RagDocument) error {
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM crawls WHERE id = ?", crawlID).Scan(&exists)
	if err == sql.ErrNoRows {
		return sitecrawl.Errorf(sitecrawl.ENOTFOUND, "crawl not found")
	}
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rag_documents (id, crawl_id, position, chunk_type, content, content_hash,
			source_url, source_title, chunk_index, relevance_score, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, doc := range docs {
		var chunkIndex sql.NullInt64
		if doc.Metadata.ChunkIndex != nil {
			chunkIndex = sql.NullInt64{Int64: int64(*doc.Metadata.ChunkIndex), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), crawlID, i, string(doc.ChunkType),
			doc.Content, hashContent(doc.Content), doc.Metadata.SourceURL, doc.Metadata.SourceTitle,
			chunkIndex, doc.Metadata.RelevanceScore,
			doc.Metadata.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindDocuments retrieves documents matching the filter in stored order.
func (s *DocumentService) FindDocuments(ctx context.Context, filter sitecrawl.DocumentFilter) ([]*sitecrawl.StoredDocument, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, crawl_id, position, chunk_type, content, content_hash,
		source_url, source_title, chunk_index, relevance_score, timestamp
		FROM rag_documents WHERE 1=1`)

	if filter.CrawlID != nil {
		query.WriteString(" AND crawl_id = ?")
		args = append(args, *filter.CrawlID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.ChunkType != nil {
		query.WriteString(" AND chunk_type = ?")
		args = append(args, string(*filter.ChunkType))
	}

	query.WriteString(" ORDER BY crawl_id, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*sitecrawl.StoredDocument
	for rows.Next() {
		var doc sitecrawl.StoredDocument
		var chunkType, timestamp string
		var chunkIndex sql.NullInt64

		if err := rows.Scan(&doc.ID, &doc.CrawlID, &doc.Position, &chunkType, &doc.Content,
			&doc.ContentHash, &doc.Metadata.SourceURL, &doc.Metadata.SourceTitle, &chunkIndex,
			&doc.Metadata.RelevanceScore, &timestamp); err != nil {
			return nil, err
		}

		doc.ChunkType = sitecrawl.ChunkType(chunkType)
		if chunkIndex.Valid {
			i := int(chunkIndex.Int64)
			doc.Metadata.ChunkIndex = &i
		}
		if doc.Metadata.Timestamp, err = parseRFC3339(timestamp, "timestamp"); err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}
