package schema

import "errors"

var (
	// ErrSchemaFormat is returned when a schema string does not follow the
	// "<type> <name>(, <type> <name>)*" grammar.
	ErrSchemaFormat = errors.New("schema has incorrect format")

	// ErrUIDFormat is returned when a UID is not 0x followed by 64 hex digits,
	// or is the reserved all-zero UID.
	ErrUIDFormat = errors.New("uid has incorrect format")

	// ErrLengthMismatch is returned when the number of schema fields differs
	// from the number of supplied data values.
	ErrLengthMismatch = errors.New("schema and data must contain the same number of elements")

	// ErrSchemaMismatch is returned when fields handed to an Encoder do not
	// match the encoder's schema position by position.
	ErrSchemaMismatch = errors.New("fields do not match encoder schema")

	// ErrValueType is returned when a field value cannot be coerced into the
	// field's declared type.
	ErrValueType = errors.New("value cannot be encoded as field type")
)
