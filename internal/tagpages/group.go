package tagpages

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnsupportedTagValue is returned when a document's tag field holds
// something other than strings, numbers or a list of them.
var ErrUnsupportedTagValue = errors.New("unsupported tag value")

// Document is the read-only view of a collection document.
type Document interface {
	// Path identifies the document in logs and errors.
	Path() string
	// Data returns the document's front matter.
	Data() map[string]any
}

// TagGroup is one tag with its documents in collection order.
type TagGroup struct {
	Tag       string
	Documents []Document
}

// GroupByTag buckets docs by every value of field and returns the groups
// sorted by tag. A document is listed once under each distinct value it has.
func GroupByTag(docs []Document, field string) ([]TagGroup, error) {
	buckets := make(map[string][]Document)
	for _, doc := range docs {
		values, err := tagValues(doc.Data()[field])
		if err != nil {
			return nil, fmt.Errorf("document %s field '%s': %w", doc.Path(), field, err)
		}
		seen := make(map[string]bool, len(values))
		for _, tag := range values {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			buckets[tag] = append(buckets[tag], doc)
		}
	}

	tags := make([]string, 0, len(buckets))
	for tag := range buckets {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	groups := make([]TagGroup, 0, len(tags))
	for _, tag := range tags {
		groups = append(groups, TagGroup{Tag: tag, Documents: buckets[tag]})
	}
	return groups, nil
}

// tagValues normalizes a field value into a list of tags. Absent, empty and
// false values produce no tags.
func tagValues(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if !val {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: boolean true", ErrUnsupportedTagValue)
	case []string:
		var out []string
		for _, s := range val {
			if s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []any:
		var out []string
		for _, item := range val {
			if item == nil {
				continue
			}
			s, ok := scalarTag(item)
			if !ok {
				return nil, fmt.Errorf("%w: list element of type %T", ErrUnsupportedTagValue, item)
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		s, ok := scalarTag(val)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedTagValue, val)
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
}

// scalarTag converts strings and numbers to their tag string.
func scalarTag(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
}
