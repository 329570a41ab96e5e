// Package filter narrows an ordered record collection by a free-text query and
// categorical field constraints combined with logical AND.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
)

// All is the categorical value meaning "no constraint on this field".
const All = "all"

// Criteria is the query plus categorical constraints applied together.
// A field that is absent, empty, or All does not constrain the result.
type Criteria struct {
	Query  string            `json:"q"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Value returns the constraint for name, All when unconstrained.
func (c Criteria) Value(name string) string {
	v := strings.TrimSpace(c.Fields[name])
	if v == "" {
		return All
	}
	return v
}

// With returns a copy of c with name constrained to value.
func (c Criteria) With(name, value string) Criteria {
	fields := make(map[string]string, len(c.Fields)+1)
	for k, v := range c.Fields {
		fields[k] = v
	}
	fields[name] = value
	return Criteria{Query: c.Query, Fields: fields}
}

// IsDefault reports whether c constrains nothing.
func (c Criteria) IsDefault() bool {
	if strings.TrimSpace(c.Query) != "" {
		return false
	}
	for name := range c.Fields {
		if !strings.EqualFold(c.Value(name), All) {
			return false
		}
	}
	return true
}

type field[T any] struct {
	name   string
	values func(T) []string
}

// Filter holds the text and categorical accessors for one record type.
// A Filter is immutable once built and safe for concurrent use.
type Filter[T any] struct {
	text   []func(T) string
	fields []field[T]
}

func New[T any]() *Filter[T] { return &Filter[T]{} }

// Text designates the fields a query is matched against.
func (f *Filter[T]) Text(accessors ...func(T) string) *Filter[T] {
	f.text = append(f.text, accessors...)
	return f
}

// Field declares a single-valued categorical field matched by equality.
func (f *Filter[T]) Field(name string, accessor func(T) string) *Filter[T] {
	return f.Set(name, func(r T) []string { return []string{accessor(r)} })
}

// Set declares a set-valued categorical field matched by membership.
func (f *Filter[T]) Set(name string, accessor func(T) []string) *Filter[T] {
	f.fields = append(f.fields, field[T]{name: name, values: accessor})
	return f
}

// Fields lists declared categorical field names in declaration order.
func (f *Filter[T]) Fields() []string {
	out := make([]string, 0, len(f.fields))
	for _, fd := range f.fields {
		out = append(out, fd.name)
	}
	return out
}

// Defaults is the reset state: empty query, every declared field All.
func (f *Filter[T]) Defaults() Criteria {
	c := Criteria{Fields: make(map[string]string, len(f.fields))}
	for _, fd := range f.fields {
		c.Fields[fd.name] = All
	}
	return c
}

// Apply returns the records matching every criterion, in their original order.
// The result is never nil.
func (f *Filter[T]) Apply(records []T, c Criteria) []T {
	m := f.matcher(c)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if m(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single record satisfies c.
func (f *Filter[T]) Match(r T, c Criteria) bool { return f.matcher(c)(r) }

func (f *Filter[T]) matcher(c Criteria) func(T) bool {
	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(c.Query))

	type constraint struct {
		values func(T) []string
		want   string
	}
	var constraints []constraint
	for name := range c.Fields {
		want := c.Value(name)
		if strings.EqualFold(want, All) {
			continue
		}
		fd, ok := f.lookup(name)
		if !ok {
			// undeclared field: nothing can satisfy it
			return func(T) bool { return false }
		}
		constraints = append(constraints, constraint{values: fd.values, want: want})
	}

	return func(r T) bool {
		for _, cn := range constraints {
			if !containsFold(cn.values(r), cn.want) {
				return false
			}
		}
		if query == "" {
			return true
		}
		for _, text := range f.text {
			if strings.Contains(folder.String(text(r)), query) {
				return true
			}
		}
		return false
	}
}

func (f *Filter[T]) lookup(name string) (field[T], bool) {
	for _, fd := range f.fields {
		if fd.name == name {
			return fd, true
		}
	}
	return field[T]{}, false
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
