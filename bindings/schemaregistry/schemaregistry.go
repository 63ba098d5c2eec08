// Package schemaregistry contains Go bindings for the subset of the EAS
// SchemaRegistry contract used by the attestation API.
package schemaregistry

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// SchemaRegistryABI is the input ABI used to generate the binding from.
const SchemaRegistryABI = `[
	{"type":"function","name":"register","stateMutability":"nonpayable",
	 "inputs":[{"name":"schema","type":"string"},{"name":"resolver","type":"address"},{"name":"revocable","type":"bool"}],
	 "outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"getSchema","stateMutability":"view",
	 "inputs":[{"name":"uid","type":"bytes32"}],
	 "outputs":[{"name":"","type":"tuple","internalType":"struct SchemaRecord","components":[
		{"name":"uid","type":"bytes32"},{"name":"resolver","type":"address"},
		{"name":"revocable","type":"bool"},{"name":"schema","type":"string"}]}]},
	{"type":"event","name":"Registered","anonymous":false,
	 "inputs":[{"name":"uid","type":"bytes32","indexed":true},
		{"name":"registerer","type":"address","indexed":true},
		{"name":"schema","type":"tuple","indexed":false,"internalType":"struct SchemaRecord","components":[
			{"name":"uid","type":"bytes32"},{"name":"resolver","type":"address"},
			{"name":"revocable","type":"bool"},{"name":"schema","type":"string"}]}]}
]`

// SchemaRecord is an auto generated low-level Go binding around an user-defined struct.
type SchemaRecord struct {
	Uid       [32]byte
	Resolver  common.Address
	Revocable bool
	Schema    string
}

// SchemaRegistryRegistered represents a Registered event raised by the SchemaRegistry contract.
type SchemaRegistryRegistered struct {
	Uid        [32]byte
	Registerer common.Address
	Schema     SchemaRecord
	Raw        types.Log
}

// SchemaRegistry is a binding around the SchemaRegistry contract.
type SchemaRegistry struct {
	abi      abi.ABI
	contract *bind.BoundContract
}

// ParsedABI returns the parsed contract ABI.
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(SchemaRegistryABI))
}

// NewSchemaRegistry creates a new instance of SchemaRegistry, bound to a specific deployed contract.
func NewSchemaRegistry(address common.Address, backend bind.ContractBackend) (*SchemaRegistry, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &SchemaRegistry{abi: parsed, contract: contract}, nil
}

// GetSchema is a free data retrieval call binding the contract method 0xa2ea7c6e.
//
// Solidity: function getSchema(bytes32 uid) view returns((bytes32,address,bool,string))
func (s *SchemaRegistry) GetSchema(opts *bind.CallOpts, uid [32]byte) (SchemaRecord, error) {
	var out []interface{}
	err := s.contract.Call(opts, &out, "getSchema", uid)
	if err != nil {
		return *new(SchemaRecord), err
	}

	out0 := *abi.ConvertType(out[0], new(SchemaRecord)).(*SchemaRecord)
	return out0, nil
}

// Register is a paid mutator transaction binding the contract method 0x60d7a278.
//
// Solidity: function register(string schema, address resolver, bool revocable) returns(bytes32)
func (s *SchemaRegistry) Register(opts *bind.TransactOpts, schema string, resolver common.Address, revocable bool) (*types.Transaction, error) {
	return s.contract.Transact(opts, "register", schema, resolver, revocable)
}

// RegisteredEventID returns the topic hash of the Registered event.
func (s *SchemaRegistry) RegisteredEventID() common.Hash {
	return s.abi.Events["Registered"].ID
}

// ParseRegistered is a log parse operation binding the contract event.
//
// Solidity: event Registered(bytes32 indexed uid, address indexed registerer, (bytes32,address,bool,string) schema)
func (s *SchemaRegistry) ParseRegistered(log types.Log) (*SchemaRegistryRegistered, error) {
	event := new(SchemaRegistryRegistered)
	if err := s.contract.UnpackLog(event, "Registered", log); err != nil {
		return nil, fmt.Errorf("could not unpack Registered event: %w", err)
	}
	event.Raw = log
	return event, nil
}
