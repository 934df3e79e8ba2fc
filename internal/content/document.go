// Package content discovers source documents and assets under the configured
// content roots and parses their front matter.
package content

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// Document is a single source document for the duration of one build.
// Identity is the source path; documents are immutable once scanned.
type Document struct {
	SourcePath string // absolute path to the source file
	RelPath    string // path relative to its content root, forward slashes
	Root       string // collection name of its content root ("" for pages)
	Meta       *frontmatter.Meta
	Body       []byte

	// Computed during the build.
	URL         string   // output path, set by the orchestrator
	Collections []string // collection memberships, set by the indexer
}

// Asset is a non-document file copied verbatim into the output tree.
type Asset struct {
	SourcePath string
	RelPath    string // path relative to the static root, forward slashes
}

// MalformedFrontMatterError reports a document whose metadata block is not
// well-formed. The document is excluded from the build; in strict mode the
// whole scan aborts.
type MalformedFrontMatterError struct {
	Path string
	Err  error
}

func (e *MalformedFrontMatterError) Error() string {
	return fmt.Sprintf("malformed front matter in %s: %v", e.Path, e.Err)
}

func (e *MalformedFrontMatterError) Unwrap() error { return e.Err }
