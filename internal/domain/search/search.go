package search

import (
	"sort"
	"strings"
)

// Filter constrains one field to a value. An empty Value is not a constraint.
type Filter struct {
	Field string
	Value string
}

// Sort requests an ordering by a schema sort key.
type Sort struct {
	Key        string
	Descending bool
}

// Criteria combines a free-text query, equals-filters and an optional sort.
// The zero value selects every record in input order.
type Criteria struct {
	Text    string
	Filters []Filter
	Sort    *Sort
}

// Where returns a copy of c with an additional filter.
func (c Criteria) Where(field, value string) Criteria {
	c.Filters = append(append([]Filter(nil), c.Filters...), Filter{Field: field, Value: value})
	return c
}

// Select returns the records matching c, in input order unless c.Sort names a
// known sort key. Sorting is stable. The result is never nil.
//
// Filters on unknown fields and values no record carries yield no matches
// rather than an error; an unknown sort key leaves input order untouched.
func Select[T any](records []T, schema *Schema[T], c Criteria) []T {
	out := make([]T, 0, len(records))
	needle := strings.ToLower(c.Text)
	for _, r := range records {
		if !schema.matchText(r, needle) || !schema.matchFilters(r, c.Filters) {
			continue
		}
		out = append(out, r)
	}
	if c.Sort != nil {
		schema.sortStable(out, *c.Sort)
	}
	return out
}

func (s *Schema[T]) matchText(r T, needle string) bool {
	if needle == "" {
		return true
	}
	for _, f := range s.text {
		for _, v := range f.Values(r) {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	}
	return false
}

func (s *Schema[T]) matchFilters(r T, filters []Filter) bool {
	for _, flt := range filters {
		if flt.Value == "" {
			continue
		}
		f, ok := s.fields[flt.Field]
		if !ok || !contains(f.Values(r), flt.Value) {
			return false
		}
	}
	return true
}

func (s *Schema[T]) sortStable(out []T, by Sort) {
	cmp, ok := s.sorts[by.Key]
	if !ok {
		return
	}
	sort.SliceStable(out, func(i, j int) bool {
		if by.Descending {
			return cmp(out[i], out[j]) > 0
		}
		return cmp(out[i], out[j]) < 0
	})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
