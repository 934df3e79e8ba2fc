package frontmatter

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Recognized front matter keys. Anything else is preserved in Meta.Extra and
// exposed to layouts unchanged.
const (
	KeyTitle         = "title"
	KeyDate          = "date"
	KeyTags          = "tags"
	KeyLayout        = "layout"
	KeyTemplateClass = "templateClass"
	KeyPermalink     = "permalink"
)

// Meta is the typed view of a document's front matter.
type Meta struct {
	Title         string
	Date          time.Time
	HasDate       bool
	Tags          []string
	Layout        string
	TemplateClass string
	Permalink     string
	Extra         map[string]any
}

// dateFormats are the accepted date shapes, tried in order.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Decode parses raw YAML front matter (without --- delimiters) into Meta.
//
// Unknown keys are not an error; they land in Extra. A key with the wrong
// shape (non-scalar title, unparseable date, non-list tags) is malformed
// metadata and returns an error.
func Decode(raw []byte) (*Meta, error) {
	fields := map[string]any{}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}

	meta := &Meta{Extra: map[string]any{}}
	for key, value := range fields {
		switch key {
		case KeyTitle:
			s, err := scalarString(key, value)
			if err != nil {
				return nil, err
			}
			meta.Title = s
		case KeyDate:
			t, err := decodeDate(value)
			if err != nil {
				return nil, err
			}
			meta.Date = t
			meta.HasDate = true
		case KeyTags:
			tags, err := decodeTags(value)
			if err != nil {
				return nil, err
			}
			meta.Tags = tags
		case KeyLayout:
			s, err := scalarString(key, value)
			if err != nil {
				return nil, err
			}
			meta.Layout = s
		case KeyTemplateClass:
			s, err := scalarString(key, value)
			if err != nil {
				return nil, err
			}
			meta.TemplateClass = s
		case KeyPermalink:
			s, err := scalarString(key, value)
			if err != nil {
				return nil, err
			}
			meta.Permalink = s
		default:
			meta.Extra[key] = value
		}
	}
	return meta, nil
}

func scalarString(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("field %q: expected string, got %T", key, value)
	}
}

// decodeDate accepts either a YAML timestamp (yaml.v3 resolves canonical
// forms to time.Time) or a string in one of the accepted formats.
func decodeDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("field %q: unrecognized date %q", KeyDate, v)
	default:
		return time.Time{}, fmt.Errorf("field %q: expected date, got %T", KeyDate, value)
	}
}

// decodeTags accepts a YAML sequence of scalars or a single scalar shorthand.
// Duplicates are removed; the set keeps first-seen order.
func decodeTags(value any) ([]string, error) {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case string:
		items = []any{v}
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("field %q: expected list of strings, got %T", KeyTags, value)
	}

	seen := map[string]struct{}{}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected string entry, got %T", KeyTags, item)
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		tags = append(tags, s)
	}
	return tags, nil
}
