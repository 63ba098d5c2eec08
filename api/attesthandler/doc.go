// Package attesthandler implements the HTTP handlers of the attestation API.
//
// Every write endpoint validates its input before anything is sent on chain:
// the schema string must match the schema grammar, UIDs must be 0x-prefixed
// non-zero 32-byte hex strings, and the attestation data must have exactly one
// value per schema field. Rejected requests get a 400 with a fixed message,
// for example "Field 'schema' has incorrect format".
//
// All responses have the shape {"message": ...}, where the message is either
// a status string, a UID, or the requested record.
//
// # Routes
//
//	POST /register-schema        {"schema", "revocable"?}
//	POST /onchain-attest         {"schema", "schemaUID", "data", "recipient"?, "expirationTime"?, "revocable"?, "refUID"?}
//	POST /attest                 alias of /onchain-attest
//	POST /revoke-onchain-attest  {"schemaUID", "attestationUID"}
//	GET  /schema-info            ?schemaUID=0x...
//	GET  /attestation-info       ?attestUID=0x...
//	GET  /receipts/{content_id}  ?kind=schema|attestation|revocation
//
// The info endpoints also accept POST with the same fields in a JSON body.
//
// Successful writes produce a receipt which is archived (its content ID is
// returned in the X-Receipt-Id header) and published, when an archive and a
// publisher are configured. Receipt failures are logged and do not fail the request.
//
// # Usage Example
//
//	handler := attesthandler.NewHandler(easClient, logger,
//		attesthandler.WithArchive(archive),
//		attesthandler.WithPublisher(publisher),
//		attesthandler.WithMetrics(m),
//	)
//	router := chi.NewRouter()
//	handler.RegisterRoutes(router)
package attesthandler
