package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gormschema "gorm.io/gorm/schema"
)

// columnNamer derives SQL column names the same way gorm derives them from struct fields.
var columnNamer = gormschema.NamingStrategy{}

// Field describes one filterable field of T: its external name, its SQL column,
// its declared type and an accessor returning the field as a Value.
type Field[T any] struct {
	Name   string
	Column string
	Type   Type
	get    func(T) Value
}

// NewField builds a field from an explicit type and accessor. The typed helpers
// (IntField, TextField, ...) should be preferred; NewField exists for schemas
// that compute their Values themselves.
func NewField[T any](name string, typ Type, get func(T) Value) Field[T] {
	return Field[T]{
		Name:   name,
		Column: columnNamer.ColumnName("", name),
		Type:   typ,
		get:    get,
	}
}

// IntField declares an integer field.
func IntField[T any](name string, get func(T) int32) Field[T] {
	return NewField(name, Integer, func(rec T) Value { return IntValue(get(rec)) })
}

// BoolField declares a boolean field.
func BoolField[T any](name string, get func(T) bool) Field[T] {
	return NewField(name, Boolean, func(rec T) Value { return BoolValue(get(rec)) })
}

// TextField declares a text field.
func TextField[T any](name string, get func(T) string) Field[T] {
	return NewField(name, Text, func(rec T) Value { return TextValue(get(rec)) })
}

// TimeField declares a timestamp field.
func TimeField[T any](name string, get func(T) time.Time) Field[T] {
	return NewField(name, Timestamp, func(rec T) Value { return TimeValue(get(rec)) })
}

// FloatField declares a floating-point field.
func FloatField[T any](name string, get func(T) float64) Field[T] {
	return NewField(name, Float, func(rec T) Value { return FloatValue(get(rec)) })
}

// WithColumn returns a copy of the field mapped to a different SQL column.
func (f Field[T]) WithColumn(column string) Field[T] {
	f.Column = column
	return f
}

// Value reads the field from a record.
func (f Field[T]) Value(rec T) Value {
	return f.get(rec)
}

// Schema is the static capability table of a record type: every field a filter
// may reference, keyed case-insensitively. A Schema is built once at startup and
// is safe for concurrent use afterwards.
type Schema[T any] struct {
	name   string
	fields map[string]Field[T]
	order  []string
}

// NewSchema builds a schema from the given fields.
//
// It panics when two fields share a name (case-insensitively) or a field has no
// accessor; both are programming errors in the record definition.
//
// Example:
//
//	var todoSchema = filter.NewSchema("todo",
//	    filter.IntField("id", func(t Todo) int32 { return int32(t.ID) }),
//	    filter.TextField("name", func(t Todo) string { return t.Name }),
//	)
func NewSchema[T any](name string, fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{
		name:   name,
		fields: make(map[string]Field[T], len(fields)),
	}
	for _, f := range fields {
		if f.get == nil {
			panic(fmt.Sprintf("filter: field %q of schema %q has no accessor", f.Name, name))
		}
		key := strings.ToLower(f.Name)
		if _, dup := s.fields[key]; dup {
			panic(fmt.Sprintf("filter: duplicate field %q in schema %q", f.Name, name))
		}
		s.fields[key] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// Name returns the record type name the schema describes.
func (s *Schema[T]) Name() string { return s.name }

// Resolve looks a field up by name, ignoring case.
func (s *Schema[T]) Resolve(name string) (Field[T], bool) {
	f, ok := s.fields[strings.ToLower(name)]
	return f, ok
}

// Fields returns the declared fields in declaration order.
func (s *Schema[T]) Fields() []Field[T] {
	out := make([]Field[T], 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[strings.ToLower(name)])
	}
	return out
}

// sortedKeys returns map keys in a stable order so compilation output and
// joined errors are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
