package schema

import (
	"fmt"
	"strings"
)

// Field is one "<type> <name>" declaration of a schema.
type Field struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// EncodedField is a schema field paired with the caller supplied value.
// It is the unit consumed by Encoder.
type EncodedField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ParseFields splits a validated schema into its ordered fields.
func ParseFields(schema string) ([]Field, error) {
	if !ValidateSchema(schema) {
		return nil, fmt.Errorf("%w: %q", ErrSchemaFormat, schema)
	}

	segments := strings.Split(schema, fieldSeparator)
	fields := make([]Field, 0, len(segments))
	for _, segment := range segments {
		typ, name, _ := strings.Cut(segment, typeSeparator)
		fields = append(fields, Field{Type: typ, Name: name})
	}
	return fields, nil
}

// Correlate zips the fields of schema with data by position. It fails with
// ErrLengthMismatch when the number of fields and values differ. Values are
// passed through untouched; type coercion is left to Encoder.
func Correlate(schema string, data []any) ([]EncodedField, error) {
	fields, err := ParseFields(schema)
	if err != nil {
		return nil, err
	}

	if len(fields) != len(data) {
		return nil, fmt.Errorf("%w: %d fields, %d values", ErrLengthMismatch, len(fields), len(data))
	}

	encoded := make([]EncodedField, len(fields))
	for i, f := range fields {
		encoded[i] = EncodedField{Name: f.Name, Type: f.Type, Value: data[i]}
	}
	return encoded, nil
}

