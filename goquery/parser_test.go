package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("takes the title from the title element", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>  Pricing
			Plans </title></head><body><h1>Heading</h1></body></html>`

		page, err := goquery.NewParser().Parse(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "Pricing Plans", page.Title)
	})

	t.Run("falls back to the first h1", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>First</h1><h1>Second</h1></body></html>`

		page, err := goquery.NewParser().Parse(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "First", page.Title)
	})

	t.Run("uses a placeholder when there is no title", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().Parse(`<html><body><p>hi</p></body></html>`, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, sitecrawl.NoTitle, page.Title)
	})

	t.Run("resolves and de-duplicates links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/b">B</a>
<a href="a">A</a>
<a href="/b#section">B again</a>
<a href="https://other.test/x">External</a>
<a href="mailto:me@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="">Empty</a>
<a>No href</a>
</body></html>`

		page, err := goquery.NewParser().Parse(html, "https://example.com/docs/")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/b",
			"https://example.com/docs/a",
			"https://other.test/x",
			"https://example.com/docs/",
		}, page.Links)
	})

	t.Run("extracts visible text without scripts", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>body{}</style></head><body>
<p>Hello    world</p>
<script>var x = 1;</script>
<p>Second line</p>
</body></html>`

		page, err := goquery.NewParser().Parse(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "Hello world\nSecond line", page.Text)
	})
}
