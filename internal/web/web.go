// Package web holds the server-rendered storefront pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs are the helpers available to every page template.
var Funcs = template.FuncMap{
	"price":   Price,
	"rating":  func(r float64) string { return strconv.FormatFloat(r, 'f', 1, 64) },
	"pages":   PageNumbers,
	"pageURL": PageURL,
}

// Templates parses every embedded page together with the shared layout.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}

func Price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// PageNumbers lists 1..n for the pager.
func PageNumbers(n int64) []int64 {
	out := make([]int64, 0, n)
	for i := int64(1); i <= n; i++ {
		out = append(out, i)
	}
	return out
}

// PageURL keeps the current filters and swaps in page.
func PageURL(query url.Values, page int64) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.FormatInt(page, 10))
	return "/search?" + q.Encode()
}
