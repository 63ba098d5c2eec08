// Package main (cmd/httpserver) runs the EAS attestation API server.
//
// The server registers schemas, creates and revokes attestations on an EAS
// deployment and answers schema and attestation lookups. Every write is
// validated before a transaction is sent: the schema string must follow the
// schema grammar, UIDs must be well formed, and the data must carry one value
// per schema field.
//
// Configuration comes from flags or their environment variables:
//
//   - ALCHEMY_URL: Ethereum JSON-RPC endpoint
//   - EAS_CONTRACT_ADDRESS, REGISTRY_CONTRACT_ADDRESS: contract addresses
//   - ADMIN_PRIVATE_KEY: transaction signer; without it the API is read-only
//   - RECEIPT_STORAGE: optional receipt archive URIs
//   - AMQP_URL: optional RabbitMQ broker receipts are published to
//
// The server implements graceful shutdown on SIGINT/SIGTERM and exposes
// health, drain and Prometheus metrics endpoints.
//
// Example usage:
//
//	eas-attestation-server --listen-addr=0.0.0.0:8080 \
//	    --rpc-addr=https://eth-sepolia.g.alchemy.com/v2/KEY \
//	    --eas-contract=0xC2679fBD37d54388Ce493F1DB75320D236e1815e \
//	    --registry-contract=0x0a7E2Ff54e76B8E6659aedc9103FB21c038050D0 \
//	    --receipt-storage=file:///var/lib/eas-receipts
package main
