package interfaces

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/eas-attestation-api/schema"
)

// Receipt records a successful on-chain write for archiving and publishing.
type Receipt struct {
	Kind      ContentType           `json:"kind"`
	UID       UID                   `json:"uid"`
	SchemaUID UID                   `json:"schemaUID"`
	Schema    string                `json:"schema,omitempty"`
	TxHash    common.Hash           `json:"txHash"`
	Data      hexutil.Bytes         `json:"data,omitempty"`
	Fields    []schema.EncodedField `json:"fields,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
}

// ReceiptPublisher announces receipts to external consumers.
type ReceiptPublisher interface {
	Publish(ctx context.Context, receipt *Receipt) error
	Close() error
}
