// Package fs writes crawl output to the local filesystem.
package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/sitecrawl"
)

// WriteFile creates path atomically: write receives a temporary file next
// to path, which is renamed into place only if write succeeds.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Format names an export format.
type Format string

// Export formats.
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatRAG      Format = "rag"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatMarkdown, FormatRAG:
		return f, nil
	}
	return "", sitecrawl.Errorf(sitecrawl.EINVALID, "unknown format %q", s)
}

// Export writes result to w in the given format. docs are used only by
// FormatRAG.
func Export(w io.Writer, format Format, result *sitecrawl.CrawlResult, docs []*sitecrawl.RagDocument) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatMarkdown:
		return WriteMarkdown(w, result)
	case FormatRAG:
		return WriteJSONL(w, docs)
	}
	return sitecrawl.Errorf(sitecrawl.EINVALID, "unknown format %q", format)
}
