package catalog

import "strings"

// Filter narrows a catalog to posts matching include/exclude keywords.
// An empty include list matches everything.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter creates a filter from keyword lists. Matching is case-insensitive.
func NewFilter(include, exclude []string) *Filter {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, kw := range in {
			out[i] = strings.ToLower(kw)
		}
		return out
	}
	return &Filter{include: lower(include), exclude: lower(exclude)}
}

// Apply returns the posts whose title or tags pass the filter, preserving
// input order.
func (f *Filter) Apply(posts []RawPost) []RawPost {
	if f == nil || (len(f.include) == 0 && len(f.exclude) == 0) {
		return posts
	}

	var kept []RawPost
	for _, p := range posts {
		if f.matches(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func (f *Filter) matches(p RawPost) bool {
	text := strings.ToLower(p.String("title", "name"))
	if tags, ok := p["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				text += " " + strings.ToLower(s)
			}
		}
	}

	for _, kw := range f.exclude {
		if strings.Contains(text, kw) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, kw := range f.include {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
