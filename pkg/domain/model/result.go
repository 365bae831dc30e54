package model

import "fmt"

// Result is a single ranked entry returned by the relevance service
type Result struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Results is an ordered result set
type Results []Result

// NaturalKey returns the business key used for deduplication. When the
// named metadata field is absent (or empty), the result ID serves as the
// key so distinct entries without the field are never collapsed.
func (r Result) NaturalKey(field string) string {
	if field == "" {
		return r.ID
	}
	v, ok := r.Metadata[field]
	if !ok || v == nil {
		return r.ID
	}
	key := fmt.Sprintf("%v", v)
	if key == "" {
		return r.ID
	}
	return key
}

// Dedupe removes entries sharing the same natural key, keeping the
// first occurrence and preserving arrival order.
func (rs Results) Dedupe(field string) Results {
	seen := make(map[string]bool, len(rs))
	out := make(Results, 0, len(rs))
	for _, r := range rs {
		key := r.NaturalKey(field)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// Cap truncates the result set to at most n entries
func (rs Results) Cap(n int) Results {
	if n < 0 || len(rs) <= n {
		return rs
	}
	return rs[:n]
}
