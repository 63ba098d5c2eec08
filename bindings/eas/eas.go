// Package eas contains Go bindings for the subset of the Ethereum Attestation
// Service contract used by the attestation API.
package eas

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EASABI is the input ABI used to generate the binding from.
const EASABI = `[
	{"type":"function","name":"attest","stateMutability":"payable",
	 "inputs":[{"name":"request","type":"tuple","internalType":"struct AttestationRequest","components":[
		{"name":"schema","type":"bytes32"},
		{"name":"data","type":"tuple","internalType":"struct AttestationRequestData","components":[
			{"name":"recipient","type":"address"},{"name":"expirationTime","type":"uint64"},
			{"name":"revocable","type":"bool"},{"name":"refUID","type":"bytes32"},
			{"name":"data","type":"bytes"},{"name":"value","type":"uint256"}]}]}],
	 "outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"revoke","stateMutability":"payable",
	 "inputs":[{"name":"request","type":"tuple","internalType":"struct RevocationRequest","components":[
		{"name":"schema","type":"bytes32"},
		{"name":"data","type":"tuple","internalType":"struct RevocationRequestData","components":[
			{"name":"uid","type":"bytes32"},{"name":"value","type":"uint256"}]}]}],
	 "outputs":[]},
	{"type":"function","name":"getAttestation","stateMutability":"view",
	 "inputs":[{"name":"uid","type":"bytes32"}],
	 "outputs":[{"name":"","type":"tuple","internalType":"struct Attestation","components":[
		{"name":"uid","type":"bytes32"},{"name":"schema","type":"bytes32"},
		{"name":"time","type":"uint64"},{"name":"expirationTime","type":"uint64"},
		{"name":"revocationTime","type":"uint64"},{"name":"refUID","type":"bytes32"},
		{"name":"recipient","type":"address"},{"name":"attester","type":"address"},
		{"name":"revocable","type":"bool"},{"name":"data","type":"bytes"}]}]},
	{"type":"event","name":"Attested","anonymous":false,
	 "inputs":[{"name":"recipient","type":"address","indexed":true},
		{"name":"attester","type":"address","indexed":true},
		{"name":"uid","type":"bytes32","indexed":false},
		{"name":"schemaUID","type":"bytes32","indexed":true}]},
	{"type":"event","name":"Revoked","anonymous":false,
	 "inputs":[{"name":"recipient","type":"address","indexed":true},
		{"name":"attester","type":"address","indexed":true},
		{"name":"uid","type":"bytes32","indexed":false},
		{"name":"schemaUID","type":"bytes32","indexed":true}]}
]`

// AttestationRequestData is an auto generated low-level Go binding around an user-defined struct.
type AttestationRequestData struct {
	Recipient      common.Address
	ExpirationTime uint64
	Revocable      bool
	RefUID         [32]byte
	Data           []byte
	Value          *big.Int
}

// AttestationRequest is an auto generated low-level Go binding around an user-defined struct.
type AttestationRequest struct {
	Schema [32]byte
	Data   AttestationRequestData
}

// RevocationRequestData is an auto generated low-level Go binding around an user-defined struct.
type RevocationRequestData struct {
	Uid   [32]byte
	Value *big.Int
}

// RevocationRequest is an auto generated low-level Go binding around an user-defined struct.
type RevocationRequest struct {
	Schema [32]byte
	Data   RevocationRequestData
}

// Attestation is an auto generated low-level Go binding around an user-defined struct.
type Attestation struct {
	Uid            [32]byte
	Schema         [32]byte
	Time           uint64
	ExpirationTime uint64
	RevocationTime uint64
	RefUID         [32]byte
	Recipient      common.Address
	Attester       common.Address
	Revocable      bool
	Data           []byte
}

// EASAttested represents an Attested event raised by the EAS contract.
type EASAttested struct {
	Recipient common.Address
	Attester  common.Address
	Uid       [32]byte
	SchemaUID [32]byte
	Raw       types.Log
}

// EASRevoked represents a Revoked event raised by the EAS contract.
type EASRevoked struct {
	Recipient common.Address
	Attester  common.Address
	Uid       [32]byte
	SchemaUID [32]byte
	Raw       types.Log
}

// EAS is a binding around the EAS contract.
type EAS struct {
	abi      abi.ABI
	contract *bind.BoundContract
}

// ParsedABI returns the parsed contract ABI.
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(EASABI))
}

// NewEAS creates a new instance of EAS, bound to a specific deployed contract.
func NewEAS(address common.Address, backend bind.ContractBackend) (*EAS, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &EAS{abi: parsed, contract: contract}, nil
}

// GetAttestation is a free data retrieval call binding the contract method 0xa3112a64.
//
// Solidity: function getAttestation(bytes32 uid) view returns((bytes32,bytes32,uint64,uint64,uint64,bytes32,address,address,bool,bytes))
func (e *EAS) GetAttestation(opts *bind.CallOpts, uid [32]byte) (Attestation, error) {
	var out []interface{}
	err := e.contract.Call(opts, &out, "getAttestation", uid)
	if err != nil {
		return *new(Attestation), err
	}

	out0 := *abi.ConvertType(out[0], new(Attestation)).(*Attestation)
	return out0, nil
}

// Attest is a paid mutator transaction binding the contract method 0xf17325e7.
//
// Solidity: function attest((bytes32,(address,uint64,bool,bytes32,bytes,uint256)) request) payable returns(bytes32)
func (e *EAS) Attest(opts *bind.TransactOpts, request AttestationRequest) (*types.Transaction, error) {
	return e.contract.Transact(opts, "attest", request)
}

// Revoke is a paid mutator transaction binding the contract method 0x46926267.
//
// Solidity: function revoke((bytes32,(bytes32,uint256)) request) payable returns()
func (e *EAS) Revoke(opts *bind.TransactOpts, request RevocationRequest) (*types.Transaction, error) {
	return e.contract.Transact(opts, "revoke", request)
}

// AttestedEventID returns the topic hash of the Attested event.
func (e *EAS) AttestedEventID() common.Hash {
	return e.abi.Events["Attested"].ID
}

// RevokedEventID returns the topic hash of the Revoked event.
func (e *EAS) RevokedEventID() common.Hash {
	return e.abi.Events["Revoked"].ID
}

// ParseAttested is a log parse operation binding the contract event.
//
// Solidity: event Attested(address indexed recipient, address indexed attester, bytes32 uid, bytes32 indexed schemaUID)
func (e *EAS) ParseAttested(log types.Log) (*EASAttested, error) {
	event := new(EASAttested)
	if err := e.contract.UnpackLog(event, "Attested", log); err != nil {
		return nil, fmt.Errorf("could not unpack Attested event: %w", err)
	}
	event.Raw = log
	return event, nil
}

// ParseRevoked is a log parse operation binding the contract event.
//
// Solidity: event Revoked(address indexed recipient, address indexed attester, bytes32 uid, bytes32 indexed schemaUID)
func (e *EAS) ParseRevoked(log types.Log) (*EASRevoked, error) {
	event := new(EASRevoked)
	if err := e.contract.UnpackLog(event, "Revoked", log); err != nil {
		return nil, fmt.Errorf("could not unpack Revoked event: %w", err)
	}
	event.Raw = log
	return event, nil
}
