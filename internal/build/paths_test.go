package build

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

func doc(relPath, root, permalink string) *content.Document {
	return &content.Document{
		SourcePath: "/src/" + relPath,
		RelPath:    relPath,
		Root:       root,
		Meta:       &frontmatter.Meta{Permalink: permalink},
	}
}

func TestOutputPath_Default(t *testing.T) {
	require.Equal(t, "/posts/hello-world/index.html", outputPath(doc("hello-world.md", "posts", "")))
	require.Equal(t, "/posts/2024/trip-report/index.html", outputPath(doc("2024/trip-report.md", "posts", "")))
}

func TestOutputPath_NoRootCollection(t *testing.T) {
	require.Equal(t, "/about/index.html", outputPath(doc("about.md", "", "")))
}

func TestOutputPath_IndexBasename(t *testing.T) {
	// index.md maps onto its directory, no extra slug segment.
	require.Equal(t, "/posts/index.html", outputPath(doc("index.md", "posts", "")))
	require.Equal(t, "/posts/2024/index.html", outputPath(doc("2024/index.md", "posts", "")))
}

func TestOutputPath_SlugifiesBasename(t *testing.T) {
	require.Equal(t, "/posts/cafe-au-lait/index.html", outputPath(doc("Café au Lait.md", "posts", "")))
}

func TestOutputPath_PermalinkOverride(t *testing.T) {
	require.Equal(t, "/custom/index.html", outputPath(doc("a.md", "posts", "/custom/")))
	require.Equal(t, "/custom/index.html", outputPath(doc("a.md", "posts", "/custom")))
	require.Equal(t, "/feed/atom.xml", outputPath(doc("a.md", "posts", "/feed/atom.xml")))
	require.Equal(t, "/custom/index.html", outputPath(doc("a.md", "posts", "custom/")))
}

func TestPrettyURL(t *testing.T) {
	require.Equal(t, "/posts/hello/", prettyURL("/posts/hello/index.html"))
	require.Equal(t, "/", prettyURL("/index.html"))
	require.Equal(t, "/feed/atom.xml", prettyURL("/feed/atom.xml"))
}

func TestCollisionError_NamesBothSources(t *testing.T) {
	err := &CollisionError{Path: "/posts/x/index.html", FirstSource: "/src/a.md", SecondSource: "/src/b.md"}
	require.Contains(t, err.Error(), "/posts/x/index.html")
	require.Contains(t, err.Error(), "/src/a.md")
	require.Contains(t, err.Error(), "/src/b.md")
}
