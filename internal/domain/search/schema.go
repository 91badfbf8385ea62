// Package search implements the filter/rank engine behind the directory,
// questions, resources and leaderboard views.
//
// Every function in this package is pure: inputs are never mutated and a
// fresh slice is always returned, so callers may share record slices across
// goroutines without coordination.
package search

import "sort"

// Field declares one searchable or filterable attribute of a record type.
//
// Values returns the field's values for a record: nothing when the field is
// absent, one value for scalar fields, many for list fields such as skills.
// An equals-filter matches when the filter value is among Values, which is
// plain equality for scalar fields and set membership for list fields.
type Field[T any] struct {
	Name   string
	Values func(T) []string
	// Text marks fields that participate in the free-text query.
	Text bool
}

// Compare orders two records: negative when a sorts before b, zero when equal.
type Compare[T any] func(a, b T) int

// Schema describes the fields and sort keys of one record type.
type Schema[T any] struct {
	fields map[string]Field[T]
	names  []string
	text   []Field[T]
	sorts  map[string]Compare[T]
}

// NewSchema builds a schema from field declarations and named sort keys.
// Later declarations of the same field name replace earlier ones.
func NewSchema[T any](fields []Field[T], sorts map[string]Compare[T]) *Schema[T] {
	s := &Schema[T]{
		fields: make(map[string]Field[T], len(fields)),
		sorts:  make(map[string]Compare[T], len(sorts)),
	}
	for _, f := range fields {
		if f.Name == "" || f.Values == nil {
			continue
		}
		if _, dup := s.fields[f.Name]; !dup {
			s.names = append(s.names, f.Name)
		}
		s.fields[f.Name] = f
	}
	for _, name := range s.names {
		if f := s.fields[name]; f.Text {
			s.text = append(s.text, f)
		}
	}
	for k, c := range sorts {
		if c != nil {
			s.sorts[k] = c
		}
	}
	return s
}

// Field returns the named field.
func (s *Schema[T]) Field(name string) (Field[T], bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Fields returns the declared field names in declaration order.
func (s *Schema[T]) Fields() []string {
	return append([]string(nil), s.names...)
}

// SortKeys returns the known sort keys in ascending order.
func (s *Schema[T]) SortKeys() []string {
	keys := make([]string, 0, len(s.sorts))
	for k := range s.sorts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// one adapts an optional scalar to the Values shape.
func one(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
