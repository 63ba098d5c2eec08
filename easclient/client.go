package easclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ruteri/eas-attestation-api/api"
	"github.com/ruteri/eas-attestation-api/bindings/eas"
	"github.com/ruteri/eas-attestation-api/bindings/schemaregistry"
	"github.com/ruteri/eas-attestation-api/interfaces"
	"github.com/ruteri/eas-attestation-api/metrics"
	"github.com/ruteri/eas-attestation-api/schema"
)

// ErrNoTransactOpts is returned when a transaction is attempted without first setting transaction options.
var ErrNoTransactOpts = errors.New("no authorized transactor available")

// Transaction kinds, used in logs and metrics.
const (
	KindRegister = "register"
	KindAttest   = "attest"
	KindRevoke   = "revoke"
)

// Client implements interfaces.AttestationService on top of the SchemaRegistry
// and EAS contracts. Schemas are registered without a resolver.
type Client struct {
	log             *slog.Logger
	eas             *eas.EAS
	registry        *schemaregistry.SchemaRegistry
	backend         bind.DeployBackend
	easAddress      common.Address
	registryAddress common.Address
	auth            *bind.TransactOpts
	txTimeout       time.Duration
	metrics         *metrics.Metrics
	closer          func()
}

var _ interfaces.AttestationService = (*Client)(nil)

// NewClient creates a client for the given contract addresses. It requires a
// ContractBackend for calls and transactions and a DeployBackend to wait for receipts.
func NewClient(log *slog.Logger, client bind.ContractBackend, backend bind.DeployBackend, easAddress, registryAddress common.Address) (*Client, error) {
	easContract, err := eas.NewEAS(easAddress, client)
	if err != nil {
		return nil, err
	}
	registryContract, err := schemaregistry.NewSchemaRegistry(registryAddress, client)
	if err != nil {
		return nil, err
	}

	return &Client{
		log:             log,
		eas:             easContract,
		registry:        registryContract,
		backend:         backend,
		easAddress:      easAddress,
		registryAddress: registryAddress,
		txTimeout:       api.DefaultTxTimeout,
	}, nil
}

// NewFromConfig dials the configured RPC endpoint and returns a client signing
// with the admin key, if one is configured.
func NewFromConfig(ctx context.Context, log *slog.Logger, cfg *api.EASConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ethClient, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", cfg.RPCURL, err)
	}

	c, err := NewClient(log, ethClient, ethClient, common.HexToAddress(cfg.EASAddress), common.HexToAddress(cfg.RegistryAddress))
	if err != nil {
		ethClient.Close()
		return nil, err
	}
	c.closer = ethClient.Close
	if cfg.TxTimeout > 0 {
		c.txTimeout = cfg.TxTimeout
	}

	if cfg.AdminPrivateKey == "" {
		log.Warn("no admin key configured, running read-only")
		return c, nil
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.AdminPrivateKey, "0x"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %v", api.ErrInvalidPrivateKey, err)
	}
	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("could not fetch chain id: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.SetTransactOpts(auth)

	log.Info("connected to EAS", "chainID", chainID, "eas", c.easAddress, "registry", c.registryAddress, "signer", auth.From)
	return c, nil
}

// SetTransactOpts sets the transaction options required for functions that modify state.
// This must be called before using any methods that send transactions to the blockchain.
func (c *Client) SetTransactOpts(auth *bind.TransactOpts) {
	c.auth = auth
}

// SetMetrics makes the client count transactions.
func (c *Client) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// Close releases the RPC connection if the client owns one.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

func (c *Client) transactOpts(ctx context.Context, value *big.Int) *bind.TransactOpts {
	opts := *c.auth
	opts.Context = ctx
	opts.Value = value
	return &opts
}

// waitMined blocks until tx is mined and fails with ErrTransactionFailed if it reverted.
func (c *Client) waitMined(ctx context.Context, kind string, tx *types.Transaction) (*types.Receipt, error) {
	c.log.Info("transaction sent", "kind", kind, "tx", tx.Hash())

	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for %s transaction %s: %w", kind, tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s transaction %s reverted", interfaces.ErrTransactionFailed, kind, tx.Hash())
	}
	return receipt, nil
}

// RegisterSchema registers a schema and returns its UID as read from the Registered event.
func (c *Client) RegisterSchema(ctx context.Context, schemaStr string, revocable bool) (res *TxResult, err error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}
	if !schema.ValidateSchema(schemaStr) {
		return nil, schema.ErrSchemaFormat
	}

	uid := schema.ComputeSchemaUID(schemaStr, common.Address{}, revocable)
	existing, err := c.registry.GetSchema(c.callOpts(ctx), uid)
	if err != nil {
		return nil, fmt.Errorf("could not look up schema %s: %w", uid, err)
	}
	if existing.Uid != ([32]byte{}) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSchemaAlreadyRegistered, uid)
	}

	defer func() { c.metrics.IncTransaction(KindRegister, err) }()

	tx, err := c.registry.Register(c.transactOpts(ctx, nil), schemaStr, common.Address{}, revocable)
	if err != nil {
		return nil, fmt.Errorf("could not send register transaction: %w", err)
	}
	receipt, err := c.waitMined(ctx, KindRegister, tx)
	if err != nil {
		return nil, err
	}

	for _, l := range receipt.Logs {
		if l.Address != c.registryAddress || len(l.Topics) == 0 || l.Topics[0] != c.registry.RegisteredEventID() {
			continue
		}
		event, err := c.registry.ParseRegistered(*l)
		if err != nil {
			return nil, err
		}
		return &TxResult{UID: event.Uid, TxHash: tx.Hash()}, nil
	}
	return nil, fmt.Errorf("%w: no Registered event in transaction %s", interfaces.ErrTransactionFailed, tx.Hash())
}

// GetSchema fetches a schema record from the registry.
func (c *Client) GetSchema(ctx context.Context, uid UID) (*interfaces.SchemaRecord, error) {
	record, err := c.registry.GetSchema(c.callOpts(ctx), uid)
	if err != nil {
		return nil, err
	}
	if record.Uid == ([32]byte{}) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrSchemaNotFound, uid)
	}

	return &interfaces.SchemaRecord{
		UID:       record.Uid,
		Resolver:  record.Resolver,
		Revocable: record.Revocable,
		Schema:    record.Schema,
	}, nil
}

// Attest creates an attestation and returns its UID as read from the Attested event.
func (c *Client) Attest(ctx context.Context, req *interfaces.AttestationRequest) (res *TxResult, err error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	defer func() { c.metrics.IncTransaction(KindAttest, err) }()

	tx, err := c.eas.Attest(c.transactOpts(ctx, value), eas.AttestationRequest{
		Schema: req.Schema,
		Data: eas.AttestationRequestData{
			Recipient:      req.Recipient,
			ExpirationTime: req.ExpirationTime,
			Revocable:      req.Revocable,
			RefUID:         req.RefUID,
			Data:           req.Data,
			Value:          value,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not send attest transaction: %w", err)
	}
	receipt, err := c.waitMined(ctx, KindAttest, tx)
	if err != nil {
		return nil, err
	}

	for _, l := range receipt.Logs {
		if l.Address != c.easAddress || len(l.Topics) == 0 || l.Topics[0] != c.eas.AttestedEventID() {
			continue
		}
		event, err := c.eas.ParseAttested(*l)
		if err != nil {
			return nil, err
		}
		return &TxResult{UID: event.Uid, TxHash: tx.Hash()}, nil
	}
	return nil, fmt.Errorf("%w: no Attested event in transaction %s", interfaces.ErrTransactionFailed, tx.Hash())
}

// GetAttestation fetches an attestation from EAS.
func (c *Client) GetAttestation(ctx context.Context, uid UID) (*interfaces.Attestation, error) {
	att, err := c.eas.GetAttestation(c.callOpts(ctx), uid)
	if err != nil {
		return nil, err
	}
	if att.Uid == ([32]byte{}) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrAttestationNotFound, uid)
	}

	return &interfaces.Attestation{
		UID:            att.Uid,
		Schema:         att.Schema,
		Time:           att.Time,
		ExpirationTime: att.ExpirationTime,
		RevocationTime: att.RevocationTime,
		RefUID:         att.RefUID,
		Recipient:      att.Recipient,
		Attester:       att.Attester,
		Revocable:      att.Revocable,
		Data:           att.Data,
	}, nil
}

// Revoke revokes an attestation after checking that both it and its schema exist.
func (c *Client) Revoke(ctx context.Context, schemaUID UID, attestationUID UID) (res *TxResult, err error) {
	if c.auth == nil {
		return nil, ErrNoTransactOpts
	}

	if _, err := c.GetSchema(ctx, schemaUID); err != nil {
		return nil, err
	}
	att, err := c.GetAttestation(ctx, attestationUID)
	if err != nil {
		return nil, err
	}
	if att.Schema != schemaUID {
		return nil, fmt.Errorf("%w: %s under schema %s", interfaces.ErrAttestationNotFound, attestationUID, schemaUID)
	}

	defer func() { c.metrics.IncTransaction(KindRevoke, err) }()

	tx, err := c.eas.Revoke(c.transactOpts(ctx, new(big.Int)), eas.RevocationRequest{
		Schema: schemaUID,
		Data:   eas.RevocationRequestData{Uid: attestationUID, Value: new(big.Int)},
	})
	if err != nil {
		return nil, fmt.Errorf("could not send revoke transaction: %w", err)
	}
	receipt, err := c.waitMined(ctx, KindRevoke, tx)
	if err != nil {
		return nil, err
	}

	for _, l := range receipt.Logs {
		if l.Address != c.easAddress || len(l.Topics) == 0 || l.Topics[0] != c.eas.RevokedEventID() {
			continue
		}
		if _, err := c.eas.ParseRevoked(*l); err != nil {
			return nil, err
		}
		return &TxResult{UID: attestationUID, TxHash: tx.Hash()}, nil
	}
	return nil, fmt.Errorf("%w: no Revoked event in transaction %s", interfaces.ErrTransactionFailed, tx.Hash())
}
