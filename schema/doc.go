// Package schema validates and encodes attestation schemas.
//
// A schema is a comma separated list of typed, named fields, for example
//
//	uint256 field0, bool field1, address field2, string field3
//
// Supported field types are bool, string, uint256 and address. The package
// provides the request validation pipeline used by the HTTP API:
//
//   - ValidateSchema checks a schema string against the grammar
//   - ValidateUID checks a 0x-prefixed 32-byte hex identifier
//   - Correlate zips the schema fields with caller supplied values
//   - Encoder ABI-encodes correlated fields into attestation data
//
// All functions are pure and safe for concurrent use.
package schema
