package easclient

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/eas-attestation-api/bindings/eas"
	"github.com/ruteri/eas-attestation-api/bindings/schemaregistry"
	"github.com/ruteri/eas-attestation-api/schema"
)

var testChainID = big.NewInt(1337)

// fakeChain is an in-memory stand-in for the SchemaRegistry and EAS contracts.
// It serves eth_call, accepts signed transactions and produces receipts with
// the events the real contracts emit.
type fakeChain struct {
	mu sync.Mutex

	easAddress      common.Address
	registryAddress common.Address
	easABI          abi.ABI
	registryABI     abi.ABI

	schemas      map[[32]byte]schemaregistry.SchemaRecord
	attestations map[[32]byte]eas.Attestation
	receipts     map[common.Hash]*types.Receipt
	nonces       map[common.Address]uint64
	time         uint64

	// revert makes every following transaction fail on-chain.
	revert bool
	// dropEvents mines transactions successfully but without logs.
	dropEvents bool
}

func newFakeChain() *fakeChain {
	easABI, err := eas.ParsedABI()
	if err != nil {
		panic(err)
	}
	registryABI, err := schemaregistry.ParsedABI()
	if err != nil {
		panic(err)
	}

	return &fakeChain{
		easAddress:      common.HexToAddress("0xC2679fBD37d54388Ce493F1DB75320D236e1815e"),
		registryAddress: common.HexToAddress("0x0a7E2Ff54e76B8E6659aedc9103FB21c038050D0"),
		easABI:          easABI,
		registryABI:     registryABI,
		schemas:         make(map[[32]byte]schemaregistry.SchemaRecord),
		attestations:    make(map[[32]byte]eas.Attestation),
		receipts:        make(map[common.Hash]*types.Receipt),
		nonces:          make(map[common.Address]uint64),
		time:            1_700_000_000,
	}
}

func (f *fakeChain) abiFor(addr common.Address) (abi.ABI, error) {
	switch addr {
	case f.easAddress:
		return f.easABI, nil
	case f.registryAddress:
		return f.registryABI, nil
	}
	return abi.ABI{}, fmt.Errorf("no contract at %s", addr)
}

func (f *fakeChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if _, err := f.abiFor(contract); err != nil {
		return nil, nil
	}
	return []byte{0x60, 0x80}, nil
}

func (f *fakeChain) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return f.CodeAt(ctx, account, nil)
}

func (f *fakeChain) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	contractABI, err := f.abiFor(*call.To)
	if err != nil {
		return nil, err
	}
	method, err := contractABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(call.Data[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "getSchema":
		return method.Outputs.Pack(f.schemas[args[0].([32]byte)])
	case "getAttestation":
		return method.Outputs.Pack(f.attestations[args[0].([32]byte)])
	}
	return nil, fmt.Errorf("unexpected call to %s", method.Name)
}

func (f *fakeChain) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[account], nil
}

func (f *fakeChain) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChain) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChain) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 300_000, nil
}

func (f *fakeChain) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeChain) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	receipt, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (f *fakeChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	from, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	if err != nil {
		return err
	}
	f.nonces[from]++
	f.time++

	receipt := &types.Receipt{TxHash: tx.Hash(), Status: types.ReceiptStatusFailed}
	f.receipts[tx.Hash()] = receipt
	if f.revert {
		return nil
	}

	contractABI, err := f.abiFor(*tx.To())
	if err != nil {
		return err
	}
	method, err := contractABI.MethodById(tx.Data()[:4])
	if err != nil {
		return err
	}
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		return err
	}

	var log *types.Log
	switch method.Name {
	case "register":
		log, err = f.register(from, args)
	case "attest":
		log, err = f.attest(from, args)
	case "revoke":
		log, err = f.revoke(from, args)
	default:
		err = fmt.Errorf("unexpected transaction to %s", method.Name)
	}
	if err != nil {
		return err
	}

	receipt.Status = types.ReceiptStatusSuccessful
	if !f.dropEvents {
		log.TxHash = tx.Hash()
		receipt.Logs = []*types.Log{log}
	}
	return nil
}

func (f *fakeChain) register(from common.Address, args []any) (*types.Log, error) {
	schemaStr, resolver, revocable := args[0].(string), args[1].(common.Address), args[2].(bool)
	uid := schema.ComputeSchemaUID(schemaStr, resolver, revocable)
	if _, ok := f.schemas[uid]; ok {
		return nil, errors.New("AlreadyExists()")
	}

	record := schemaregistry.SchemaRecord{Uid: uid, Resolver: resolver, Revocable: revocable, Schema: schemaStr}
	f.schemas[uid] = record

	event := f.registryABI.Events["Registered"]
	data, err := event.Inputs.NonIndexed().Pack(record)
	if err != nil {
		return nil, err
	}
	return &types.Log{
		Address: f.registryAddress,
		Topics:  []common.Hash{event.ID, common.Hash(uid), common.BytesToHash(from.Bytes())},
		Data:    data,
	}, nil
}

func (f *fakeChain) attest(from common.Address, args []any) (*types.Log, error) {
	req := *abi.ConvertType(args[0], new(eas.AttestationRequest)).(*eas.AttestationRequest)
	if _, ok := f.schemas[req.Schema]; !ok {
		return nil, errors.New("InvalidSchema()")
	}

	uid := crypto.Keccak256Hash(req.Schema[:], req.Data.Data, big.NewInt(int64(f.time)).Bytes())
	f.attestations[uid] = eas.Attestation{
		Uid:            uid,
		Schema:         req.Schema,
		Time:           f.time,
		ExpirationTime: req.Data.ExpirationTime,
		RefUID:         req.Data.RefUID,
		Recipient:      req.Data.Recipient,
		Attester:       from,
		Revocable:      req.Data.Revocable,
		Data:           req.Data.Data,
	}
	return f.easEvent("Attested", req.Data.Recipient, from, uid, req.Schema), nil
}

func (f *fakeChain) revoke(from common.Address, args []any) (*types.Log, error) {
	req := *abi.ConvertType(args[0], new(eas.RevocationRequest)).(*eas.RevocationRequest)
	att, ok := f.attestations[req.Data.Uid]
	if !ok || att.Schema != req.Schema {
		return nil, errors.New("NotFound()")
	}
	att.RevocationTime = f.time
	f.attestations[req.Data.Uid] = att
	return f.easEvent("Revoked", att.Recipient, from, att.Uid, att.Schema), nil
}

func (f *fakeChain) easEvent(name string, recipient, attester common.Address, uid, schemaUID [32]byte) *types.Log {
	return &types.Log{
		Address: f.easAddress,
		Topics: []common.Hash{
			f.easABI.Events[name].ID,
			common.BytesToHash(recipient.Bytes()),
			common.BytesToHash(attester.Bytes()),
			schemaUID,
		},
		Data: uid[:],
	}
}
