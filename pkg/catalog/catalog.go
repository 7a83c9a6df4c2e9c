package catalog

import "context"

// RawPost is a post record exactly as the backend returned it. The catalog
// makes no promises about which keys are present or how they are spelled;
// the stats normalizer owns that cleanup.
type RawPost map[string]any

// Source is the interface every catalog backend must implement.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawPost, error)
}

// String returns the string value under any of the given keys, or "".
func (p RawPost) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
