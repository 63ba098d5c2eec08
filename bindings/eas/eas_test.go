package eas

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIDs(t *testing.T) {
	contract, err := NewEAS(common.Address{}, nil)
	require.NoError(t, err)

	assert.Equal(t, crypto.Keccak256Hash([]byte("Attested(address,address,bytes32,bytes32)")), contract.AttestedEventID())
	assert.Equal(t, crypto.Keccak256Hash([]byte("Revoked(address,address,bytes32,bytes32)")), contract.RevokedEventID())
}

func TestMethodIDs(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	tests := map[string]string{
		"attest":         "attest((bytes32,(address,uint64,bool,bytes32,bytes,uint256)))",
		"revoke":         "revoke((bytes32,(bytes32,uint256)))",
		"getAttestation": "getAttestation(bytes32)",
	}
	for name, signature := range tests {
		assert.Equal(t, crypto.Keccak256([]byte(signature))[:4], parsed.Methods[name].ID, name)
	}
}

func TestParseAttestedAndRevoked(t *testing.T) {
	contract, err := NewEAS(common.Address{}, nil)
	require.NoError(t, err)

	recipient := common.HexToAddress("0x55D26f9ae0203EF95494AE4C170eD35f4Cf77797")
	attester := common.HexToAddress("0x1111111111111111111111111111111111111111")
	uid := common.Hash{0xaa}
	schemaUID := common.Hash{0xbb}

	topics := func(id common.Hash) []common.Hash {
		return []common.Hash{id, common.BytesToHash(recipient.Bytes()), common.BytesToHash(attester.Bytes()), schemaUID}
	}

	attested, err := contract.ParseAttested(types.Log{Topics: topics(contract.AttestedEventID()), Data: uid.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, recipient, attested.Recipient)
	assert.Equal(t, attester, attested.Attester)
	assert.Equal(t, [32]byte(uid), attested.Uid)
	assert.Equal(t, [32]byte(schemaUID), attested.SchemaUID)

	revoked, err := contract.ParseRevoked(types.Log{Topics: topics(contract.RevokedEventID()), Data: uid.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, [32]byte(uid), revoked.Uid)

	_, err = contract.ParseRevoked(types.Log{Topics: topics(contract.AttestedEventID()), Data: uid.Bytes()})
	assert.Error(t, err)
}

func TestGetAttestationOutputRoundTrip(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	att := Attestation{Uid: [32]byte{1}, Schema: [32]byte{2}, Time: 10, Revocable: true, Data: []byte{0xde, 0xad}}
	out, err := parsed.Methods["getAttestation"].Outputs.Pack(att)
	require.NoError(t, err)

	values, err := parsed.Methods["getAttestation"].Outputs.Unpack(out)
	require.NoError(t, err)
	assert.Equal(t, att, *abi.ConvertType(values[0], new(Attestation)).(*Attestation))
}
