// Package render converts document bodies to HTML and threads them through
// resolved layout chains.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/blogbuilder/internal/collections"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/layouts"
)

// Site is the immutable per-build context shared by every render. It is
// constructed once per build and passed by reference, never stored globally,
// so repeated builds in one process cannot leak state into each other.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
	Collections map[string]*collections.Collection
}

// Page is the read-only view of a document exposed to layouts.
type Page struct {
	Title         string
	Date          string
	HasDate       bool
	Tags          []string
	TemplateClass string
	URL           string
	Extra         map[string]any
}

// Renderer converts markdown bodies and applies layout chains. Rendering is
// a pure function of the document, its chain and the site context.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer. GFM extensions match what the blog content uses;
// raw HTML in post bodies is passed through.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// templateData is the rendering context handed to every layout in the chain.
type templateData struct {
	Site        *Site
	Page        Page
	Content     template.HTML
	Collections map[string]*collections.Collection
}

// Fragment converts the document body to an HTML fragment without applying
// any layout.
func (r *Renderer) Fragment(doc *content.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(doc.Body, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the final byte content for a document: the body fragment
// threaded through the chain innermost to outermost, each layout receiving
// the accumulated output in its Content slot.
func (r *Renderer) Render(doc *content.Document, chain []*layouts.Layout, site *Site) ([]byte, error) {
	fragment, err := r.Fragment(doc)
	if err != nil {
		return nil, err
	}

	page := pageView(doc)
	current := template.HTML(fragment)

	// Chain is outermost first; rendering threads innermost first.
	for i := len(chain) - 1; i >= 0; i-- {
		layout := chain[i]
		data := templateData{
			Site:        site,
			Page:        page,
			Content:     current,
			Collections: site.Collections,
		}
		var buf bytes.Buffer
		if err := layout.Template.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute layout %q: %w", layout.Name, err)
		}
		current = template.HTML(buf.String())
	}

	return []byte(current), nil
}

func pageView(doc *content.Document) Page {
	page := Page{
		Title:         doc.Meta.Title,
		HasDate:       doc.Meta.HasDate,
		Tags:          doc.Meta.Tags,
		TemplateClass: doc.Meta.TemplateClass,
		URL:           doc.URL,
		Extra:         doc.Meta.Extra,
	}
	if doc.Meta.HasDate {
		page.Date = doc.Meta.Date.Format("2006-01-02")
	}
	return page
}
