/*
Package api holds the shared request, response and configuration types of the
EAS attestation API.

The HTTP surface is implemented by subpackages:

  - attesthandler: request validation and translation into on-chain calls
  - clients: a Go client for the HTTP API

Every response is a JSON object of the form {"message": ...}. On success the
message carries the result (a UID, a schema record, an attestation), on failure
it carries a human readable description of what was wrong with the request.

# Configuration

EASConfig describes the blockchain connection (RPC URL, EAS and SchemaRegistry
addresses, signing key). HTTPServerConfig describes the listener and its
lifecycle. ReceiptConfig optionally enables archiving of transaction receipts
to storage backends and publishing them to RabbitMQ.
*/
package api
