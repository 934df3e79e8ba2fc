// Package collections builds the named, ordered document groupings that
// layouts consume for listing and navigation pages.
package collections

import (
	"sort"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
)

// AllName is the implicit collection containing every document.
const AllName = "all"

// Collection is a named, ordered sequence of documents. Collections are
// rebuilt fully on every build and never mutated afterwards.
type Collection struct {
	Name      string
	Documents []*content.Document
}

// Index groups documents into collections:
//
//   - the implicit "all" collection,
//   - one collection per content root with a configured collection name,
//   - one collection per distinct tag value.
//
// Within each collection, documents sort by date descending. Documents
// without a date sort after all dated documents, keeping discovery order.
// Equal dates tie-break by source path ascending, so ordering never depends
// on filesystem iteration order. Membership is also recorded on each
// document's Collections field.
func Index(docs []*content.Document) map[string]*Collection {
	byName := map[string]*Collection{}
	// seen guards against a tag sharing a name with a root collection.
	seen := map[string]map[string]struct{}{}

	add := func(name string, doc *content.Document) {
		col, ok := byName[name]
		if !ok {
			col = &Collection{Name: name}
			byName[name] = col
			seen[name] = map[string]struct{}{}
		}
		if _, dup := seen[name][doc.SourcePath]; dup {
			return
		}
		seen[name][doc.SourcePath] = struct{}{}
		col.Documents = append(col.Documents, doc)
	}

	for _, doc := range docs {
		add(AllName, doc)
		if doc.Root != "" {
			add(doc.Root, doc)
		}
		for _, tag := range doc.Meta.Tags {
			add(tag, doc)
		}
	}

	for _, col := range byName {
		sortDocuments(col.Documents)
	}

	// Record memberships in a deterministic order per document.
	for _, doc := range docs {
		doc.Collections = nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, doc := range byName[name].Documents {
			doc.Collections = append(doc.Collections, name)
		}
	}

	return byName
}

// sortDocuments orders dated documents first (date descending, source path
// ascending on ties), then undated documents in their incoming order.
func sortDocuments(docs []*content.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		di, dj := docs[i], docs[j]
		if di.Meta.HasDate != dj.Meta.HasDate {
			return di.Meta.HasDate
		}
		if !di.Meta.HasDate {
			// Undated pair: stable sort keeps discovery order.
			return false
		}
		if !di.Meta.Date.Equal(dj.Meta.Date) {
			return di.Meta.Date.After(dj.Meta.Date)
		}
		return di.SourcePath < dj.SourcePath
	})
}
