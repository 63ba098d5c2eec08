package interfaces

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/eas-attestation-api/schema"
)

// UID is a 32-byte schema or attestation identifier.
type UID = schema.UID

var (
	// ErrSchemaNotFound is returned when the registry has no record for a schema UID.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrSchemaAlreadyRegistered is returned when registering a schema whose UID already exists.
	ErrSchemaAlreadyRegistered = errors.New("schema already registered")

	// ErrAttestationNotFound is returned when EAS has no attestation for a UID.
	ErrAttestationNotFound = errors.New("attestation not found")

	// ErrTransactionFailed is returned when a transaction was mined but reverted,
	// or its receipt does not carry the expected event.
	ErrTransactionFailed = errors.New("transaction failed")
)

// SchemaRecord is a schema as stored in the SchemaRegistry contract.
type SchemaRecord struct {
	UID       UID            `json:"uid"`
	Resolver  common.Address `json:"resolver"`
	Revocable bool           `json:"revocable"`
	Schema    string         `json:"schema"`
}

// Attestation is an attestation as stored in the EAS contract.
// Times are unix seconds; zero means unset.
type Attestation struct {
	UID            UID            `json:"uid"`
	Schema         UID            `json:"schema"`
	Time           uint64         `json:"time"`
	ExpirationTime uint64         `json:"expirationTime"`
	RevocationTime uint64         `json:"revocationTime"`
	RefUID         UID            `json:"refUID"`
	Recipient      common.Address `json:"recipient"`
	Attester       common.Address `json:"attester"`
	Revocable      bool           `json:"revocable"`
	Data           hexutil.Bytes  `json:"data"`
}

// AttestationRequest carries the parameters of a new on-chain attestation.
type AttestationRequest struct {
	Schema         UID
	Recipient      common.Address
	ExpirationTime uint64
	Revocable      bool
	RefUID         UID
	Data           []byte

	// Value is the ETH value sent to the schema resolver, nil means zero.
	Value *big.Int
}

// TxResult identifies the outcome of a mined state-changing call.
type TxResult struct {
	// UID is the schema UID for registrations and the attestation UID
	// for attestations and revocations.
	UID    UID
	TxHash common.Hash
}

// AttestationService performs schema and attestation operations against the
// SchemaRegistry and EAS contracts.
type AttestationService interface {
	// RegisterSchema registers a revocable or irrevocable schema without a resolver.
	RegisterSchema(ctx context.Context, schema string, revocable bool) (*TxResult, error)

	// GetSchema fetches a schema record, returning ErrSchemaNotFound for unknown UIDs.
	GetSchema(ctx context.Context, uid UID) (*SchemaRecord, error)

	// Attest creates a new attestation and returns its UID.
	Attest(ctx context.Context, req *AttestationRequest) (*TxResult, error)

	// GetAttestation fetches an attestation, returning ErrAttestationNotFound for unknown UIDs.
	GetAttestation(ctx context.Context, uid UID) (*Attestation, error)

	// Revoke revokes an attestation made under schemaUID.
	Revoke(ctx context.Context, schemaUID UID, attestationUID UID) (*TxResult, error)
}
