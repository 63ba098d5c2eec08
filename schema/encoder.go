package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Encoder ABI-encodes attestation data for a fixed schema, the same way the
// EAS SchemaEncoder does: the values are packed as a tuple of the schema types.
type Encoder struct {
	schema string
	fields []Field
	args   abi.Arguments
}

// DecodedField is a field read back from encoded attestation data.
// Values are rendered JSON friendly: uint256 as a decimal string and
// address as a checksummed hex string.
type DecodedField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// NewEncoder creates an Encoder for a schema string.
func NewEncoder(schema string) (*Encoder, error) {
	fields, err := ParseFields(schema)
	if err != nil {
		return nil, err
	}

	args := make(abi.Arguments, 0, len(fields))
	for _, f := range fields {
		t, err := abi.NewType(f.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaFormat, err)
		}
		args = append(args, abi.Argument{Name: f.Name, Type: t})
	}

	return &Encoder{schema: schema, fields: fields, args: args}, nil
}

// Schema returns the schema string the encoder was built from.
func (e *Encoder) Schema() string {
	return e.schema
}

// Encode coerces every field value to its declared type and ABI-encodes the
// result. Fields must match the schema by position, name and type.
func (e *Encoder) Encode(fields []EncodedField) ([]byte, error) {
	if len(fields) != len(e.fields) {
		return nil, fmt.Errorf("%w: %d fields, %d expected", ErrSchemaMismatch, len(fields), len(e.fields))
	}

	values := make([]any, len(fields))
	for i, f := range fields {
		expected := e.fields[i]
		if f.Name != expected.Name || f.Type != expected.Type {
			return nil, fmt.Errorf("%w: field %d is %s %s, expected %s %s",
				ErrSchemaMismatch, i, f.Type, f.Name, expected.Type, expected.Name)
		}

		v, err := coerce(f.Type, f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q (%s): %v", ErrValueType, f.Name, f.Type, err)
		}
		values[i] = v
	}

	return e.args.Pack(values...)
}

// Decode unpacks attestation data produced for this schema.
func (e *Encoder) Decode(data []byte) ([]DecodedField, error) {
	values, err := e.args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode attestation data: %w", err)
	}

	decoded := make([]DecodedField, len(values))
	for i, v := range values {
		f := e.fields[i]
		switch x := v.(type) {
		case *big.Int:
			v = x.String()
		case common.Address:
			v = x.Hex()
		}
		decoded[i] = DecodedField{Name: f.Name, Type: f.Type, Value: v}
	}
	return decoded, nil
}

func coerce(typ string, value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("missing value")
	}

	switch typ {
	case "uint256":
		return toUint256(value)
	case "bool":
		return toBool(value)
	case "string":
		return toString(value)
	case "address":
		return toAddress(value)
	default:
		return nil, fmt.Errorf("unsupported type %s", typ)
	}
}

func toUint256(value any) (*big.Int, error) {
	var n *big.Int

	switch v := value.(type) {
	case *big.Int:
		n = new(big.Int).Set(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		n, _ = big.NewFloat(v).Int(nil)
	case json.Number:
		var ok bool
		n, ok = new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("%s is not an integer", v)
		}
	case string:
		var ok bool
		if hexDigits, isHex := strings.CutPrefix(v, "0x"); isHex {
			n, ok = new(big.Int).SetString(hexDigits, 16)
		} else {
			n, ok = new(big.Int).SetString(v, 10)
		}
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
	case int:
		n = big.NewInt(int64(v))
	case int64:
		n = big.NewInt(v)
	case uint64:
		n = new(big.Int).SetUint64(v)
	default:
		return nil, fmt.Errorf("unexpected value of type %T", value)
	}

	if n.Sign() < 0 || n.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%s is out of uint256 range", n)
	}
	return n, nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch v {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%v is not a boolean", value)
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64, bool, int, int64, uint64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unexpected value of type %T", value)
	}
}

func toAddress(value any) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case string:
		if common.IsHexAddress(v) {
			return common.HexToAddress(v), nil
		}
	}
	return common.Address{}, fmt.Errorf("%v is not an address", value)
}
