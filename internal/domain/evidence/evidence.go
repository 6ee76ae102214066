// Package evidence holds the corroborating items an analysis collects from
// its backends: related tickets and documentation references.
package evidence

import "strings"

// RelatedItem is a ticket related to the query.
type RelatedItem struct {
	id      int64
	url     string
	excerpt string
}

// NewRelatedItem creates a related item. excerpt may be empty.
func NewRelatedItem(id int64, url, excerpt string) RelatedItem {
	return RelatedItem{id: id, url: url, excerpt: excerpt}
}

// ID returns the ticket identifier.
func (r RelatedItem) ID() int64 { return r.id }

// URL returns the agent-facing link.
func (r RelatedItem) URL() string { return r.url }

// Excerpt returns a short description, possibly empty.
func (r RelatedItem) Excerpt() string { return r.excerpt }

// DocReference is a documentation page related to the query.
type DocReference struct {
	title      string
	url        string
	annotation string
}

// NewDocReference creates a doc reference. annotation may be empty.
func NewDocReference(title, url, annotation string) DocReference {
	return DocReference{title: title, url: url, annotation: annotation}
}

// Title returns the page title.
func (d DocReference) Title() string { return d.title }

// URL returns the page link.
func (d DocReference) URL() string { return d.url }

// Annotation returns the snippet shown next to the link, possibly empty.
func (d DocReference) Annotation() string { return d.annotation }

// UniqueRelated keeps the first occurrence of each id in upstream order,
// drops items without an id, and returns at most limit items.
func UniqueRelated(items []RelatedItem, limit int) []RelatedItem {
	out := make([]RelatedItem, 0, min(len(items), max(limit, 0)))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if len(out) >= limit {
			break
		}
		if it.id <= 0 {
			continue
		}
		if _, dup := seen[it.id]; dup {
			continue
		}
		seen[it.id] = struct{}{}
		out = append(out, it)
	}
	return out
}

// UniqueDocs keeps the first occurrence of each url in upstream order,
// drops references without a url, and returns at most limit references.
// URLs compare without surrounding whitespace or a trailing slash.
func UniqueDocs(docs []DocReference, limit int) []DocReference {
	out := make([]DocReference, 0, min(len(docs), max(limit, 0)))
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if len(out) >= limit {
			break
		}
		key := strings.TrimSuffix(strings.TrimSpace(d.url), "/")
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ExcludeTicket drops every item pointing at id.
func ExcludeTicket(items []RelatedItem, id int64) []RelatedItem {
	if id <= 0 {
		return items
	}
	out := items[:0:0]
	for _, it := range items {
		if it.id != id {
			out = append(out, it)
		}
	}
	return out
}
