// Package output materializes the build output tree on disk.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Writer performs the destination filesystem writes. Any failure here is
// fatal for the whole build.
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at the destination directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Clean empties the destination so stale files from removed documents cannot
// survive a rebuild. The destination directory itself is kept (it may be a
// mount point).
func (w *Writer) Clean() error {
	entries, err := os.ReadDir(w.root)
	if os.IsNotExist(err) {
		return os.MkdirAll(w.root, 0o755)
	}
	if err != nil {
		return fmt.Errorf("read destination %s: %w", w.root, err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return fmt.Errorf("clean destination: %w", err)
		}
	}
	slog.Debug("Destination cleaned", logfields.Output(w.root), logfields.Count(len(entries)))
	return nil
}

// WriteTree writes every output path of the tree under the destination.
// Paths are written in sorted order so failures are reproducible.
func (w *Writer) WriteTree(tree map[string][]byte) error {
	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		target := w.target(p)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create output directory for %s: %w", p, err)
		}
		// #nosec G306 -- rendered pages are public assets
		if err := os.WriteFile(target, tree[p], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	slog.Info("Output tree written", logfields.Output(w.root), logfields.Count(len(paths)))
	return nil
}

// CopyAssets copies static files verbatim, mirroring their relative paths.
func (w *Writer) CopyAssets(assets []content.Asset) error {
	for _, asset := range assets {
		target := filepath.Join(w.root, filepath.FromSlash(asset.RelPath))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create asset directory for %s: %w", asset.RelPath, err)
		}
		if err := copyFile(asset.SourcePath, target); err != nil {
			return fmt.Errorf("copy asset %s: %w", asset.RelPath, err)
		}
	}
	return nil
}

func (w *Writer) target(outputPath string) string {
	rel := strings.TrimPrefix(outputPath, "/")
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
