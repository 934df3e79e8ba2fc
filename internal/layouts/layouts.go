// Package layouts loads layout templates and resolves the acyclic chain a
// document's body is threaded through during rendering.
//
// A layout file is an HTML template that may itself declare a parent via a
// `layout:` front matter field, forming a chain. Chains are resolved once per
// starting layout and cached; cycle detection happens here, before any
// rendering starts, so it has a single choke point.
package layouts

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// Layout is a single parsed layout template.
type Layout struct {
	Name     string // file name without extension, e.g. "post"
	Parent   string // parent layout name from front matter, "" for outermost
	Template *template.Template
}

// CycleError reports a layout chain that revisits a layout already in the
// chain. Chain lists the walk up to and including the repeated layout.
type CycleError struct {
	Repeated string
	Chain    []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic layout chain %s revisits %q", strings.Join(e.Chain, " -> "), e.Repeated)
}

// UnknownLayoutError reports a reference to a layout that does not exist.
type UnknownLayoutError struct {
	Name         string
	ReferencedBy string
}

func (e *UnknownLayoutError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unknown layout %q", e.Name)
	}
	return fmt.Sprintf("unknown layout %q referenced by %q", e.Name, e.ReferencedBy)
}

// Store holds all loaded layouts and caches resolved chains.
type Store struct {
	layouts map[string]*Layout
	chains  map[string][]*Layout
}

// Load reads every *.html file under dir as a layout. Layout front matter is
// the same `---` delimited YAML as documents; only `layout:` is meaningful.
func Load(dir string) (*Store, error) {
	store := &Store{
		layouts: map[string]*Layout{},
		chains:  map[string][]*Layout{},
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return store, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		raw, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}

		fm, body, _, serr := frontmatter.Split(raw)
		if serr != nil {
			return fmt.Errorf("layout %s: %w", path, serr)
		}
		meta, merr := frontmatter.Decode(fm)
		if merr != nil {
			return fmt.Errorf("layout %s: %w", path, merr)
		}

		rel, rlerr := filepath.Rel(dir, path)
		if rlerr != nil {
			return rlerr
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".html")

		tpl, terr := template.New(name).Parse(string(body))
		if terr != nil {
			return fmt.Errorf("layout %s: %w", path, terr)
		}

		store.layouts[name] = &Layout{Name: name, Parent: meta.Layout, Template: tpl}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Get returns a layout by name.
func (s *Store) Get(name string) (*Layout, bool) {
	l, ok := s.layouts[name]
	return l, ok
}

// Len reports the number of loaded layouts.
func (s *Store) Len() int { return len(s.layouts) }

// Resolve follows the `layout` references from name transitively and returns
// the chain outermost first. Resolved chains are cached per starting layout.
func (s *Store) Resolve(name string) ([]*Layout, error) {
	if chain, ok := s.chains[name]; ok {
		return chain, nil
	}

	var innerFirst []*Layout
	visited := map[string]struct{}{}
	walk := []string{}

	current := name
	referencedBy := ""
	for current != "" {
		walk = append(walk, current)
		if _, seen := visited[current]; seen {
			return nil, &CycleError{Repeated: current, Chain: walk}
		}
		visited[current] = struct{}{}

		layout, ok := s.layouts[current]
		if !ok {
			return nil, &UnknownLayoutError{Name: current, ReferencedBy: referencedBy}
		}
		innerFirst = append(innerFirst, layout)
		referencedBy = current
		current = layout.Parent
	}

	chain := make([]*Layout, len(innerFirst))
	for i, l := range innerFirst {
		chain[len(innerFirst)-1-i] = l
	}
	s.chains[name] = chain
	return chain, nil
}
