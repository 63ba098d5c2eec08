// Package interfaces defines the types and interfaces shared between the
// attestation API components: the on-chain attestation service, the receipt
// archive storage backends and the receipt publisher.
//
// It carries no implementation logic so that handlers, clients and storage
// backends can depend on it without depending on each other.
package interfaces
