package build

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/render"
)

// CollisionError reports two documents whose computed output paths collide.
// Silently overwriting one document's output with another's would be a
// correctness violation, so this aborts the build.
type CollisionError struct {
	Path         string
	FirstSource  string
	SecondSource string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("output path collision at %s: %s and %s", e.Path, e.FirstSource, e.SecondSource)
}

// outputPath computes where a document's rendered bytes land. A front matter
// permalink overrides the default, which derives from the document's content
// root, its directory within that root, and a slug of its file name.
func outputPath(doc *content.Document) string {
	if p := doc.Meta.Permalink; p != "" {
		return normalizePermalink(p)
	}

	base := strings.TrimSuffix(path.Base(doc.RelPath), path.Ext(doc.RelPath))
	dir := path.Dir(doc.RelPath)

	segments := []string{}
	if doc.Root != "" {
		segments = append(segments, doc.Root)
	}
	if dir != "." {
		segments = append(segments, dir)
	}
	if base != "index" {
		segments = append(segments, render.Slugify(base))
	}

	return "/" + path.Join(append(segments, "index.html")...)
}

// normalizePermalink turns a front matter permalink into a concrete output
// file path: directory-style permalinks get an index.html, extensionless
// ones become directories.
func normalizePermalink(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	if path.Ext(p) == "" {
		return p + "/index.html"
	}
	return p
}

// prettyURL is the user-facing URL for an output path: directory URLs for
// index.html files, the path itself otherwise.
func prettyURL(outputPath string) string {
	if strings.HasSuffix(outputPath, "/index.html") {
		return strings.TrimSuffix(outputPath, "index.html")
	}
	return outputPath
}
