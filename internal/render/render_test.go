package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/collections"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/layouts"
)

func layoutStore(t *testing.T, files map[string]string) *layouts.Store {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	store, err := layouts.Load(dir)
	require.NoError(t, err)
	return store
}

func testDoc(body string) *content.Document {
	date, _ := time.Parse("2006-01-02", "2024-06-30")
	return &content.Document{
		SourcePath: "posts/hello.md",
		Meta: &frontmatter.Meta{
			Title:   "Hello",
			Date:    date,
			HasDate: true,
			Layout:  "post",
			Extra:   map[string]any{},
		},
		Body: []byte(body),
	}
}

func TestRender_ThreadsContentThroughChainInnermostFirst(t *testing.T) {
	store := layoutStore(t, map[string]string{
		"default.html": "<html><title>{{.Site.Title}}</title>{{.Content}}</html>",
		"post.html":    "---\nlayout: default\n---\n<article class=\"{{.Page.TemplateClass}}\">{{.Content}}</article>",
	})
	chain, err := store.Resolve("post")
	require.NoError(t, err)

	doc := testDoc("# Heading\n\nBody text.\n")
	doc.Meta.TemplateClass = "wide"
	site := &Site{Title: "My Blog"}

	out, err := New().Render(doc, chain, site)
	require.NoError(t, err)

	html := string(out)
	require.Contains(t, html, "<title>My Blog</title>")
	require.Contains(t, html, `<article class="wide">`)
	require.Contains(t, html, "<h1>Heading</h1>")
	// Inner layout output sits inside the outer layout.
	require.Less(t, strings.Index(html, "<article"), strings.Index(html, "</html>"))
}

func TestRender_IsDeterministic(t *testing.T) {
	store := layoutStore(t, map[string]string{
		"default.html": "<main>{{.Content}}</main>",
	})
	chain, err := store.Resolve("default")
	require.NoError(t, err)

	doc := testDoc("Some *markdown* here.\n")
	site := &Site{Title: "Blog"}
	r := New()

	first, err := r.Render(doc, chain, site)
	require.NoError(t, err)
	second, err := r.Render(doc, chain, site)
	require.NoError(t, err)
	require.Equal(t, first, second, "render must be byte-identical for identical inputs")
}

func TestRender_LayoutsSeeCollections(t *testing.T) {
	store := layoutStore(t, map[string]string{
		"list.html": `<ul>{{range (index .Collections "posts").Documents}}<li>{{.Meta.Title}}</li>{{end}}</ul>{{.Content}}`,
	})
	chain, err := store.Resolve("list")
	require.NoError(t, err)

	post := testDoc("x")
	post.Root = "posts"
	cols := collections.Index([]*content.Document{post})

	site := &Site{Title: "Blog", Collections: cols}
	out, err := New().Render(testDoc("index body"), chain, site)
	require.NoError(t, err)
	require.Contains(t, string(out), "<li>Hello</li>")
}

func TestRender_NoLayout_ReturnsFragment(t *testing.T) {
	doc := testDoc("plain **bold** text\n")
	out, err := New().Render(doc, nil, &Site{})
	require.NoError(t, err)
	require.Contains(t, string(out), "<strong>bold</strong>")
}

func TestRender_GFMTable(t *testing.T) {
	doc := testDoc("| a | b |\n|---|---|\n| 1 | 2 |\n")
	out, err := New().Render(doc, nil, &Site{})
	require.NoError(t, err)
	require.Contains(t, string(out), "<table>")
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	doc := testDoc("<div class=\"note\">hi</div>\n")
	out, err := New().Render(doc, nil, &Site{})
	require.NoError(t, err)
	require.Contains(t, string(out), `<div class="note">hi</div>`)
}
