package search

import "sort"

// FacetCount is a distinct field value with the number of records carrying it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets returns the distinct non-empty values of field across records,
// sorted ascending. An unknown field yields an empty list.
func Facets[T any](records []T, schema *Schema[T], field string) []string {
	counts := FacetCounts(records, schema, field)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Value
	}
	return out
}

// FacetCounts is Facets with per-value record counts. A record listing the
// same value twice is counted once.
func FacetCounts[T any](records []T, schema *Schema[T], field string) []FacetCount {
	f, ok := schema.Field(field)
	if !ok {
		return []FacetCount{}
	}
	counts := make(map[string]int)
	for _, r := range records {
		seen := make(map[string]struct{})
		for _, v := range f.Values(r) {
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			counts[v]++
		}
	}
	out := make([]FacetCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
