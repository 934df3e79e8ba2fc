package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Store reads source documents from the configured content roots.
type Store struct {
	roots     []config.ContentRoot
	staticDir string
	strict    bool
}

// ScanResult is the outcome of one discovery pass.
type ScanResult struct {
	Documents []*Document
	Assets    []Asset
	// Problems lists per-document scan failures (malformed front matter).
	// Empty in strict mode: the first problem aborts the scan instead.
	Problems []error
}

// NewStore creates a content store over the given roots. In strict mode the
// first malformed document aborts the scan.
func NewStore(roots []config.ContentRoot, staticDir string, strict bool) *Store {
	return &Store{
		roots:     roots,
		staticDir: staticDir,
		strict:    strict,
	}
}

// Scan discovers all documents and assets. Document order is deterministic:
// roots in configured order, files in lexical walk order within each root.
func (s *Store) Scan(ctx context.Context) (*ScanResult, error) {
	result := &ScanResult{}

	for _, root := range s.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(root.Path); os.IsNotExist(err) {
			slog.Warn("Content root not found, skipping", logfields.Path(root.Path))
			continue
		}
		if err := s.scanRoot(root, result); err != nil {
			return nil, err
		}
		slog.Debug("Content root scanned", logfields.Path(root.Path), logfields.Count(len(result.Documents)))
	}

	if s.staticDir != "" {
		assets, err := scanAssets(s.staticDir)
		if err != nil {
			return nil, err
		}
		result.Assets = assets
	}

	slog.Info("Content scan complete",
		logfields.Count(len(result.Documents)),
		slog.Int("assets", len(result.Assets)),
		slog.Int("problems", len(result.Problems)))
	return result, nil
}

func (s *Store) scanRoot(root config.ContentRoot, result *ScanResult) error {
	// WalkDir visits entries in lexical order, which keeps discovery order
	// independent of filesystem iteration order.
	return filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root.Path {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(path) {
			return nil
		}

		doc, derr := s.readDocument(path, root)
		if derr != nil {
			if s.strict {
				return derr
			}
			var mfe *MalformedFrontMatterError
			if errors.As(derr, &mfe) {
				slog.Warn("Skipping document with malformed front matter", logfields.Source(path), logfields.Error(derr))
			} else {
				slog.Warn("Skipping unreadable document", logfields.Source(path), logfields.Error(derr))
			}
			result.Problems = append(result.Problems, derr)
			return nil
		}
		result.Documents = append(result.Documents, doc)
		return nil
	})
}

func (s *Store) readDocument(path string, root config.ContentRoot) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, &MalformedFrontMatterError{Path: path, Err: err}
	}
	meta, err := frontmatter.Decode(fm)
	if err != nil {
		return nil, &MalformedFrontMatterError{Path: path, Err: err}
	}

	rel, err := filepath.Rel(root.Path, path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &Document{
		SourcePath: abs,
		RelPath:    filepath.ToSlash(rel),
		Root:       root.Collection,
		Meta:       meta,
		Body:       body,
	}, nil
}

func scanAssets(dir string) ([]Asset, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var assets []Asset
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return rerr
		}
		assets = append(assets, Asset{SourcePath: path, RelPath: filepath.ToSlash(rel)})
		return nil
	})
	return assets, err
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
