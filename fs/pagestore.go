package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/sitecrawl"
)

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "invalid url %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "url %q has no host", rawURL)
	}

	host := strings.ReplaceAll(u.Host, ":", "_")
	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path = strings.TrimSuffix(path, ".html") + ".md"
	}
	rel := filepath.Join(host, filepath.FromSlash(path))
	if !filepath.IsLocal(rel) || !strings.HasPrefix(rel, host+string(filepath.Separator)) {
		return "", sitecrawl.Errorf(sitecrawl.EINVALID, "path traversal in url %q", rawURL)
	}
	return rel, nil
}

// FormatPage formats a page's markdown with YAML frontmatter.
func FormatPage(page *sitecrawl.PageResult) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\ncrawled: ")
	b.WriteString(page.Timestamp.UTC().Format("2006-01-02"))
	if page.Relevance != nil {
		b.WriteString("\nrelevance: ")
		b.WriteString(strconv.FormatFloat(page.Relevance.Score, 'f', -1, 64))
	}
	b.WriteString("\n---\n\n")
	b.WriteString(page.Markdown)
	return b.String()
}

// PageStore saves page markdown as a directory tree with atomic update
// semantics. Pages are saved to a temporary directory, then moved into
// place on Commit.
type PageStore struct {
	baseDir string
	name    string
}

// NewPageStore creates a new PageStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewPageStore(baseDir, name string) *PageStore {
	return &PageStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *PageStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *PageStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes page to the temporary directory. Pages without markdown are
// skipped.
func (s *PageStore) Save(page *sitecrawl.PageResult) error {
	if page.Failed() || page.Markdown == "" {
		return nil
	}

	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(FormatPage(page)), 0644)
}

// SaveAll saves every page of result and commits, or aborts on the first
// error.
func (s *PageStore) SaveAll(result *sitecrawl.CrawlResult) error {
	for _, page := range result.Pages {
		if err := s.Save(page); err != nil {
			_ = s.Abort()
			return err
		}
	}
	return s.Commit()
}

// Commit replaces the final directory with the temporary one.
func (s *PageStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the temporary directory.
func (s *PageStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
