// Package feeds generates the RSS feed and sitemap emitted alongside the
// rendered site.
package feeds

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Site carries the channel-level feed fields.
type Site struct {
	Title       string
	Description string
	BaseURL     string
}

// Item is one feed entry, typically a post.
type Item struct {
	Title       string
	URL         string // site-relative, e.g. /posts/hello/
	Description string
	Date        time.Time
	HasDate     bool
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

// RSS renders an RSS 2.0 feed for the given items, already ordered.
func RSS(site Site, items []Item) ([]byte, error) {
	entries := make([]rssItem, 0, len(items))
	for _, it := range items {
		link := absoluteURL(site.BaseURL, it.URL)
		entry := rssItem{
			Title:       it.Title,
			Link:        link,
			Description: it.Description,
			GUID:        link,
		}
		if it.HasDate {
			entry.PubDate = it.Date.Format(time.RFC1123Z)
		}
		entries = append(entries, entry)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       site.Title,
			Link:        site.BaseURL,
			Description: site.Description,
			Items:       entries,
		},
	}
	return encode(feed)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders a sitemap for every item plus the site root.
func Sitemap(site Site, items []Item) ([]byte, error) {
	urls := []sitemapURL{{Loc: absoluteURL(site.BaseURL, "/")}}
	for _, it := range items {
		u := sitemapURL{Loc: absoluteURL(site.BaseURL, it.URL)}
		if it.HasDate {
			u.LastMod = it.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return encode(sitemap)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func absoluteURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
