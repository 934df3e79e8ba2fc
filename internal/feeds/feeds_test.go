package feeds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSite = Site{
	Title:       "Test Blog",
	Description: "Notes",
	BaseURL:     "https://blog.example.com/",
}

func testItems() []Item {
	date, _ := time.Parse("2006-01-02", "2024-06-30")
	return []Item{
		{Title: "Feign error handling", URL: "/posts/feign-error-handling/", Description: "On retries", Date: date, HasDate: true},
		{Title: "Undated note", URL: "/posts/undated/"},
	}
}

func TestRSS(t *testing.T) {
	out, err := RSS(testSite, testItems())
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, `<rss version="2.0">`)
	require.Contains(t, s, "<title>Test Blog</title>")
	require.Contains(t, s, "<link>https://blog.example.com/posts/feign-error-handling/</link>")
	require.Contains(t, s, "30 Jun 2024")
	// Undated items omit pubDate rather than inventing one.
	require.Contains(t, s, "<title>Undated note</title>")
	require.NotContains(t, s, "<pubDate></pubDate>")
}

func TestRSS_IsDeterministic(t *testing.T) {
	first, err := RSS(testSite, testItems())
	require.NoError(t, err)
	second, err := RSS(testSite, testItems())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSitemap(t *testing.T) {
	out, err := Sitemap(testSite, testItems())
	require.NoError(t, err)

	s := string(out)
	require.Contains(t, s, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
	require.Contains(t, s, "<loc>https://blog.example.com/</loc>")
	require.Contains(t, s, "<loc>https://blog.example.com/posts/feign-error-handling/</loc>")
	require.Contains(t, s, "<lastmod>2024-06-30</lastmod>")
}
