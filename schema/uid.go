package schema

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// UID is a 32-byte on-chain identifier of a schema or an attestation.
type UID [32]byte

// ZeroUID is the reserved "absent/unknown" identifier.
var ZeroUID UID

// ParseUID parses a 0x-prefixed 64 hex digit string into a UID.
func ParseUID(s string) (UID, error) {
	if !ValidateUID(s) {
		return UID{}, fmt.Errorf("%w: %q", ErrUIDFormat, s)
	}

	var uid UID
	if _, err := hex.Decode(uid[:], []byte(s[2:])); err != nil {
		return UID{}, fmt.Errorf("%w: %v", ErrUIDFormat, err)
	}
	return uid, nil
}

// String returns the lower case 0x-prefixed hex form.
func (u UID) String() string {
	return "0x" + hex.EncodeToString(u[:])
}

// IsZero reports whether u is the reserved zero UID.
func (u UID) IsZero() bool {
	return u == ZeroUID
}

// MarshalText implements encoding.TextMarshaler.
func (u UID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The zero UID is
// accepted here so that on-chain records carrying it can round-trip.
func (u *UID) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) != 66 || s[:2] != "0x" {
		return fmt.Errorf("%w: %q", ErrUIDFormat, s)
	}
	if _, err := hex.Decode(u[:], text[2:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUIDFormat, err)
	}
	return nil
}

// ComputeSchemaUID returns the UID the SchemaRegistry contract assigns to a
// schema: keccak256(abi.encodePacked(schema, resolver, revocable)).
func ComputeSchemaUID(schema string, resolver common.Address, revocable bool) UID {
	packed := make([]byte, 0, len(schema)+common.AddressLength+1)
	packed = append(packed, schema...)
	packed = append(packed, resolver.Bytes()...)
	if revocable {
		packed = append(packed, 1)
	} else {
		packed = append(packed, 0)
	}
	return UID(crypto.Keccak256Hash(packed))
}
