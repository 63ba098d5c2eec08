// Package main (cmd/eas-client) is a command line client for the attestation API.
//
// Example usage:
//
//	eas-client register-schema --schema "uint256 score, bool passed"
//	eas-client attest --schema "uint256 score, bool passed" \
//	    --schema-uid 0x... --data '[42, true]'
//	eas-client attestation-info --attestation-uid 0x...
//	eas-client revoke --schema-uid 0x... --attestation-uid 0x...
//	eas-client validate --schema "uint256 score, bool passed" --data '[42, true]'
package main
