package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testRoots(t *testing.T) ([]config.ContentRoot, string, string) {
	t.Helper()
	dir := t.TempDir()
	roots := []config.ContentRoot{
		{Path: filepath.Join(dir, "posts"), Collection: "posts"},
		{Path: filepath.Join(dir, "pages")},
	}
	return roots, filepath.Join(dir, "static"), dir
}

func TestScan_DiscoversDocumentsInDeterministicOrder(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "posts", "b.md"), "---\ntitle: B\n---\nbody b\n")
	writeFile(t, filepath.Join(dir, "posts", "a.md"), "---\ntitle: A\n---\nbody a\n")
	writeFile(t, filepath.Join(dir, "pages", "about.md"), "---\ntitle: About\n---\nabout\n")

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Documents, 3)
	// Roots in configured order, lexical order within each root.
	require.Equal(t, "a.md", result.Documents[0].RelPath)
	require.Equal(t, "b.md", result.Documents[1].RelPath)
	require.Equal(t, "about.md", result.Documents[2].RelPath)
	require.Equal(t, "posts", result.Documents[0].Root)
	require.Equal(t, "", result.Documents[2].Root)
	require.Equal(t, []byte("body a\n"), result.Documents[0].Body)
}

func TestScan_MalformedFrontMatter_SkipsAndReports(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "posts", "bad.md"), "---\ntitle: [oops\n---\nbody\n")
	writeFile(t, filepath.Join(dir, "posts", "good.md"), "---\ntitle: Good\n---\nbody\n")

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	require.Equal(t, "Good", result.Documents[0].Meta.Title)
	require.Len(t, result.Problems, 1)

	var mfe *MalformedFrontMatterError
	require.True(t, errors.As(result.Problems[0], &mfe))
	require.Contains(t, mfe.Path, "bad.md")
}

func TestScan_StrictMode_AbortsOnMalformedFrontMatter(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "posts", "bad.md"), "---\ntitle: [oops\n---\nbody\n")

	_, err := NewStore(roots, static, true).Scan(context.Background())
	require.Error(t, err)

	var mfe *MalformedFrontMatterError
	require.True(t, errors.As(err, &mfe))
}

func TestScan_UnreadableDocument_ReportedAsReadProblem(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	roots, static, dir := testRoots(t)
	secret := filepath.Join(dir, "posts", "secret.md")
	writeFile(t, secret, "---\ntitle: Secret\n---\nbody\n")
	require.NoError(t, os.Chmod(secret, 0o000))
	t.Cleanup(func() { _ = os.Chmod(secret, 0o644) })

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Documents)
	require.Len(t, result.Problems, 1)

	// A read failure is not malformed metadata; the problem keeps its IO shape.
	var mfe *MalformedFrontMatterError
	require.False(t, errors.As(result.Problems[0], &mfe))
	require.Contains(t, result.Problems[0].Error(), "read document")
}

func TestScan_MissingClosingDelimiter_IsMalformed(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "posts", "open.md"), "---\ntitle: Open\nno closing\n")

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Documents)
	require.Len(t, result.Problems, 1)
}

func TestScan_DiscoversAssets(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "static", "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(dir, "static", "favicon.ico"), "x")

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Assets, 2)
	rels := []string{result.Assets[0].RelPath, result.Assets[1].RelPath}
	require.Contains(t, rels, "css/site.css")
	require.Contains(t, rels, "favicon.ico")
}

func TestScan_IgnoresNonMarkdownInContentRoots(t *testing.T) {
	roots, static, dir := testRoots(t)
	writeFile(t, filepath.Join(dir, "posts", "note.txt"), "not a post")
	writeFile(t, filepath.Join(dir, "posts", "post.md"), "---\ntitle: P\n---\nx\n")

	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
}

func TestScan_MissingRoot_IsSkipped(t *testing.T) {
	roots, static, _ := testRoots(t)
	result, err := NewStore(roots, static, false).Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Documents)
}
