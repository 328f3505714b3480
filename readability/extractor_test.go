package readability_test

import (
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<aside class="sidebar"><a href="/related">Related posts</a></aside>
<article>
<h1>Release Notes</h1>
<p>Version two introduces a faster crawler, better relevance scoring and a new export format for retrieval pipelines.</p>
<p>Upgrading requires no configuration changes. Existing exports continue to load, and new fields are optional.</p>
<ul><li>Faster fetching</li><li>Smarter chunking</li></ul>
<p>See the <a href="/docs/upgrade">upgrade guide</a> for details.</p>
</article>
<footer>Copyright Example Inc.</footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor("").Extract("")

	require.Error(t, err)
	assert.Equal(t, sitecrawl.EPROCESSING, sitecrawl.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor("").Extract(articleHTML)

	require.NoError(t, err)
	assert.Equal(t, "Release Notes", result.Title)
}

func TestExtractor_KeepsArticleContent(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor("").Extract(articleHTML)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "faster crawler")
	assert.Contains(t, result.ContentHTML, "<li>")
	assert.NotContains(t, result.ContentHTML, "Copyright Example")
}

func TestExtractor_ResolvesLinksAgainstSiteURL(t *testing.T) {
	t.Parallel()

	result, err := readability.NewExtractor("https://example.com/news/").Extract(articleHTML)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "https://example.com/docs/upgrade")
}
