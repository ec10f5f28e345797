// Package schema provides explicit, statically declared schema
// descriptors for materialization, together with the fixed coercion
// rules that map record field values to float64 cells.
//
// A Schema is an ordered list of (name, type) pairs supplied by the
// caller. There is no runtime reflection over record types: callers
// either declare the schema up front or derive one from a sample
// record's field names with Infer. Column count and order are fixed
// for the lifetime of one materialization call; every partition's
// output and the finalized frame header follow the same order.
package schema

import (
	"sort"

	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// FieldType is the declared type of a schema field.
type FieldType string

const (
	// Float64 fields pass through unchanged.
	Float64 FieldType = "float64"
	// Int64 fields are widened to float64.
	Int64 FieldType = "int64"
	// Bool fields map true to 1.0 and false to 0.0.
	Bool FieldType = "bool"
	// String fields are parsed as decimal numbers; unparseable values
	// degrade to NaN.
	String FieldType = "string"
	// Binary has no numeric mapping and is rejected at validation time.
	Binary FieldType = "binary"
)

// Field is a single named, typed column of a schema.
type Field struct {
	Name string    `yaml:"name" json:"name"`
	Type FieldType `yaml:"type" json:"type"`
}

// Schema is an ordered sequence of fields. The zero value is unusable;
// construct with New or Infer.
type Schema struct {
	fields []Field
}

// New builds a schema from the given fields, preserving order.
func New(fields ...Field) *Schema {
	return &Schema{fields: append([]Field(nil), fields...)}
}

// Infer derives a schema from one sample record's data map. Field
// names are sorted for determinism and types are inferred from the
// sample values only; absent or nil values infer as Float64. This is
// the semi-structured path and samples a single record, nothing more.
func Infer(data map[string]interface{}) *Schema {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Type: inferType(data[name])})
	}
	return &Schema{fields: fields}
}

func inferType(v interface{}) FieldType {
	switch v.(type) {
	case bool:
		return Bool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int64
	case string:
		return String
	default:
		return Float64
	}
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns the ordered fields. The returned slice must not be
// modified.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Names returns the ordered column names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks that the schema can drive a materialization: it must
// be non-empty, free of duplicate names, and every declared type must
// have a numeric mapping. A violation is a schema error and fails the
// whole call before any parallel work starts.
func (s *Schema) Validate() error {
	if len(s.fields) == 0 {
		return qerrors.New(qerrors.ErrorTypeSchema, "schema has no fields")
	}

	seen := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		if f.Name == "" {
			return qerrors.New(qerrors.ErrorTypeSchema, "schema field with empty name")
		}
		if _, dup := seen[f.Name]; dup {
			return qerrors.Newf(qerrors.ErrorTypeSchema, "duplicate schema field %q", f.Name)
		}
		seen[f.Name] = struct{}{}

		switch f.Type {
		case Float64, Int64, Bool, String:
		default:
			return qerrors.Newf(qerrors.ErrorTypeSchema,
				"field %q has type %q with no numeric mapping", f.Name, f.Type)
		}
	}
	return nil
}
