package api

import (
	"encoding/json"

	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/ruteri/eas-attestation-api/schema"
)

// Response is the envelope of every API response. Message holds either the
// result payload or a human readable error.
type Response struct {
	Message any `json:"message"`
}

// TypedResponse is the client side view of Response with a concrete payload type.
type TypedResponse[T any] struct {
	Message T `json:"message"`
}

// RegisterSchemaRequest is the body of POST /register-schema.
type RegisterSchemaRequest struct {
	Schema string `json:"schema"`

	// Revocable defaults to true.
	Revocable *bool `json:"revocable,omitempty"`
}

// AttestRequest is the body of POST /onchain-attest.
type AttestRequest struct {
	Schema    string `json:"schema"`
	SchemaUID string `json:"schemaUID"`
	Data      []any  `json:"data"`

	// Optional overrides of the attestation defaults.
	Recipient      *string      `json:"recipient,omitempty"`
	ExpirationTime *json.Number `json:"expirationTime,omitempty"`
	Revocable      *bool        `json:"revocable,omitempty"`
	RefUID         *string      `json:"refUID,omitempty"`
}

// RevokeRequest is the body of POST /revoke-onchain-attest.
type RevokeRequest struct {
	SchemaUID      string `json:"schemaUID"`
	AttestationUID string `json:"attestationUID"`
}

// SchemaInfoRequest is the body of POST /schema-info.
type SchemaInfoRequest struct {
	SchemaUID string `json:"schemaUID"`
}

// AttestationInfoRequest is the body of POST /attestation-info.
type AttestationInfoRequest struct {
	AttestUID string `json:"attestUID"`
}

// AttestationInfo is an on-chain attestation together with its data decoded
// against the attestation's schema, when the schema could be resolved.
type AttestationInfo struct {
	interfaces.Attestation
	SchemaString string                `json:"schemaString,omitempty"`
	DecodedData  []schema.DecodedField `json:"decodedData,omitempty"`
}
