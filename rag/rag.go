package rag

import "github.com/fwojciec/sitecrawl"

// Chunk converts every successful page of result into RagDocuments:
// a summary document and one key_point document per key point when the page
// has extracted content, then one content document per chunk of its
// Markdown. Failed pages are skipped. The output order follows the page
// order and is deterministic.
func (c Chunker) Chunk(result *sitecrawl.CrawlResult) []*sitecrawl.RagDocument {
	var docs []*sitecrawl.RagDocument
	for _, page := range result.Pages {
		if page.Failed() {
			continue
		}
		docs = append(docs, c.chunkPage(page)...)
	}
	return docs
}

func (c Chunker) chunkPage(page *sitecrawl.PageResult) []*sitecrawl.RagDocument {
	var score float64
	if page.Relevance != nil {
		score = page.Relevance.Score
	}
	doc := func(typ sitecrawl.ChunkType, content string, index *int) *sitecrawl.RagDocument {
		return &sitecrawl.RagDocument{
			ChunkType: typ,
			Content:   content,
			Metadata: sitecrawl.RagMetadata{
				SourceURL:      page.URL,
				SourceTitle:    page.Title,
				ChunkIndex:     index,
				RelevanceScore: score,
				Timestamp:      page.Timestamp,
			},
		}
	}

	var docs []*sitecrawl.RagDocument
	if ec := page.ExtractedContent; ec != nil {
		if ec.Summary != "" {
			docs = append(docs, doc(sitecrawl.ChunkSummary, ec.Summary, nil))
		}
		for i, point := range ec.KeyPoints {
			docs = append(docs, doc(sitecrawl.ChunkKeyPoint, point, &i))
		}
	}
	for i, seg := range c.Split(page.Markdown) {
		docs = append(docs, doc(sitecrawl.ChunkContent, seg.Text, &i))
	}
	return docs
}
