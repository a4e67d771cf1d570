package web

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "product.html", "search.html", "dashboard.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestErrorPageRendersDarkMode(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "error.html", map[string]any{
		"Title":    "Not Found",
		"DarkMode": true,
		"Status":   404,
		"Message":  "Not Found",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `class="dark"`)
	assert.Contains(t, buf.String(), "<h1>404</h1>")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "$12.50", Price(12.5))
	assert.Equal(t, []int64{1, 2, 3}, PageNumbers(3))
	assert.Empty(t, PageNumbers(0))

	got := PageURL(url.Values{"category": {"Shirts"}, "page": {"1"}}, 2)
	assert.Equal(t, "/search?category=Shirts&page=2", got)
}
