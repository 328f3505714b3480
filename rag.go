package sitecrawl

import "time"

// ChunkType classifies a RagDocument.
type ChunkType string

// Chunk types.
const (
	ChunkSummary  ChunkType = "summary"
	ChunkKeyPoint ChunkType = "key_point"
	ChunkContent  ChunkType = "content"
)

// RagMetadata describes where a RagDocument came from.
type RagMetadata struct {
	SourceURL      string    `json:"source_url"`
	SourceTitle    string    `json:"source_title"`
	ChunkIndex     *int      `json:"chunk_index,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
	Timestamp      time.Time `json:"timestamp"`
}

// RagDocument is a piece of crawled text ready for retrieval indexing.
type RagDocument struct {
	ChunkType ChunkType   `json:"chunk_type"`
	Content   string      `json:"content"`
	Metadata  RagMetadata `json:"metadata"`
}

// Validate returns an error if the document cannot be stored.
func (d *RagDocument) Validate() error {
	switch d.ChunkType {
	case ChunkSummary, ChunkKeyPoint, ChunkContent:
	default:
		return Errorf(EINVALID, "unknown chunk type %q", d.ChunkType)
	}
	if d.Metadata.SourceURL == "" {
		return Errorf(EINVALID, "document source url required")
	}
	return nil
}
