package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrMissingRPCURL     = errors.New("missing RPC URL")
	ErrInvalidAddress    = errors.New("invalid contract address")
	ErrInvalidPrivateKey = errors.New("invalid admin private key")
)

const (
	DefaultTxTimeout       = 2 * time.Minute
	DefaultReceiptExchange = "eas.receipts"
)

// EASConfig holds the blockchain connection parameters of the service.
type EASConfig struct {
	// RPCURL is the JSON-RPC endpoint, e.g. an Alchemy URL.
	RPCURL string

	// EASAddress is the address of the EAS contract.
	EASAddress string

	// RegistryAddress is the address of the SchemaRegistry contract.
	RegistryAddress string

	// AdminPrivateKey is the hex encoded key signing all transactions.
	// Without it the service is read-only.
	AdminPrivateKey string

	// DefaultRecipient is used for attestations that do not name a recipient.
	DefaultRecipient string

	// TxTimeout bounds waiting for a transaction to be mined.
	TxTimeout time.Duration
}

// Validate checks that the configuration is usable.
func (c *EASConfig) Validate() error {
	if c.RPCURL == "" {
		return ErrMissingRPCURL
	}
	if !common.IsHexAddress(c.EASAddress) {
		return fmt.Errorf("%w: EAS address %q", ErrInvalidAddress, c.EASAddress)
	}
	if !common.IsHexAddress(c.RegistryAddress) {
		return fmt.Errorf("%w: registry address %q", ErrInvalidAddress, c.RegistryAddress)
	}
	if c.DefaultRecipient != "" && !common.IsHexAddress(c.DefaultRecipient) {
		return fmt.Errorf("%w: recipient %q", ErrInvalidAddress, c.DefaultRecipient)
	}
	if c.AdminPrivateKey != "" {
		if _, err := crypto.HexToECDSA(strings.TrimPrefix(c.AdminPrivateKey, "0x")); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
	}
	return nil
}

// Recipient returns the configured default recipient, or the zero address.
func (c *EASConfig) Recipient() common.Address {
	if c.DefaultRecipient == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.DefaultRecipient)
}

// ReceiptConfig configures archiving and publishing of transaction receipts.
// Both sinks are optional.
type ReceiptConfig struct {
	// StorageURIs lists receipt storage backends, e.g. file:///var/lib/eas
	// or s3://bucket/prefix/?region=eu-west-1.
	StorageURIs []string

	// AMQPURL is the RabbitMQ broker receipts are published to.
	AMQPURL string

	// Exchange is the topic exchange receipts are published on.
	Exchange string
}
