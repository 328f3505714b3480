// Package rag turns crawl results into documents for retrieval indexing.
package rag

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/sitecrawl"
)

// Chunking defaults.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// Segment is a chunk of text with its byte offsets in the source.
// Text == source[Start:End].
type Segment struct {
	Text  string
	Start int
	End   int
}

// Chunker splits page text into overlapping chunks and assembles
// RagDocuments from a CrawlResult. Sizes are in bytes; chunks never split a
// UTF-8 sequence.
type Chunker struct {
	ChunkSize int
	Overlap   int
}

// DefaultChunker returns a Chunker with the default size and overlap.
func DefaultChunker() Chunker {
	return Chunker{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Validate returns an EINVALID error unless ChunkSize is positive and
// Overlap is in [0, ChunkSize).
func (c Chunker) Validate() error {
	if c.ChunkSize <= 0 {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return sitecrawl.Errorf(sitecrawl.EINVALID, "chunk overlap must be in [0, %d), got %d", c.ChunkSize, c.Overlap)
	}
	return nil
}

// Split cuts text into segments of at most ChunkSize bytes.
//
// Each segment ends at the last paragraph break ("\n\n") inside the window,
// else the last sentence end (". "), else the last whitespace, else at the
// window edge. The separator stays with the segment it ends. The next
// segment starts Overlap bytes before the previous end, and always after the
// previous start, so Split terminates for every input.
//
// Split assumes a valid Chunker; see Validate.
func (c Chunker) Split(text string) []Segment {
	var segments []Segment
	start := 0
	for start < len(text) {
		end := start + c.ChunkSize
		if end >= len(text) {
			segments = append(segments, Segment{Text: text[start:], Start: start, End: len(text)})
			break
		}
		end = runeStart(text, end, start)

		brk := start + breakPoint(text[start:end])
		segments = append(segments, Segment{Text: text[start:brk], Start: start, End: brk})

		next := runeStart(text, brk-c.Overlap, start)
		if next <= start {
			next = brk
		}
		start = next
	}
	return segments
}

// breakPoint returns the length of the chunk to cut from window.
// The result is always positive for a non-empty window.
func breakPoint(window string) int {
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i + len("\n\n")
	}
	if i := strings.LastIndex(window, ". "); i > 0 {
		return i + len(". ")
	}
	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		_, size := utf8.DecodeRuneInString(window[i:])
		return i + size
	}
	return len(window)
}

// runeStart moves i back to the start of the UTF-8 sequence containing it,
// never below floor. If that would leave nothing after floor, the end of
// the first rune after floor is returned instead.
func runeStart(s string, i, floor int) int {
	if i <= floor {
		return floor
	}
	for i > floor && !utf8.RuneStart(s[i]) {
		i--
	}
	if i == floor {
		_, size := utf8.DecodeRuneInString(s[floor:])
		return floor + size
	}
	return i
}
