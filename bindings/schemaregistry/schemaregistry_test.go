package schemaregistry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistered(t *testing.T) {
	registry, err := NewSchemaRegistry(common.HexToAddress("0x0a7E2Ff54e76B8E6659aedc9103FB21c038050D0"), nil)
	require.NoError(t, err)

	assert.Equal(t, crypto.Keccak256Hash([]byte("Registered(bytes32,address,(bytes32,address,bool,string))")), registry.RegisteredEventID())

	record := SchemaRecord{Uid: [32]byte{0x01, 0x02}, Revocable: true, Schema: "uint256 field0, bool field1"}
	registerer := common.HexToAddress("0x55D26f9ae0203EF95494AE4C170eD35f4Cf77797")

	parsed, err := ParsedABI()
	require.NoError(t, err)
	data, err := parsed.Events["Registered"].Inputs.NonIndexed().Pack(record)
	require.NoError(t, err)

	log := types.Log{
		Topics: []common.Hash{registry.RegisteredEventID(), record.Uid, common.BytesToHash(registerer.Bytes())},
		Data:   data,
	}
	event, err := registry.ParseRegistered(log)
	require.NoError(t, err)
	assert.Equal(t, record.Uid, event.Uid)
	assert.Equal(t, registerer, event.Registerer)
	assert.Equal(t, record, event.Schema)

	log.Topics[0] = common.Hash{0xff}
	_, err = registry.ParseRegistered(log)
	assert.Error(t, err)
}

func TestMethodIDs(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	assert.Equal(t, crypto.Keccak256([]byte("register(string,address,bool)"))[:4], parsed.Methods["register"].ID)
	assert.Equal(t, crypto.Keccak256([]byte("getSchema(bytes32)"))[:4], parsed.Methods["getSchema"].ID)
}
