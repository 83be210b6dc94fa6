package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// encOptions mirrors a DAG-CBOR-style canonical encoding: sorted map keys,
// fixed-width floats, Unix timestamps, no indefinite-length containers. Two
// structurally equal values always produce identical bytes, which is what
// lets us derive a commit's identity from its content.
var encOptions = cbor.EncOptions{
	Sort:          cbor.SortCanonical,
	ShortestFloat: cbor.ShortestFloatNone,
	Time:          cbor.TimeUnix,
	TimeTag:       cbor.EncTagNone,
	IndefLength:   cbor.IndefLengthForbidden,
	BigIntConvert: cbor.BigIntConvertShortest,
}

var encMode, _ = encOptions.EncMode()

var decOptions = cbor.DecOptions{
	MaxArrayElements: 1_000_000,
	MaxMapPairs:      1_000_000,
	MaxNestedLevels:  10000,
	IndefLength:      cbor.IndefLengthForbidden,
	DupMapKey:        cbor.DupMapKeyEnforcedAPF,
	BignumTag:        cbor.BignumTagForbidden,
	TimeTag:          cbor.DecTagIgnored,
}

var decMode, _ = decOptions.DecMode()

// canonicalEncode serializes v deterministically.
func canonicalEncode(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	return data, nil
}

func canonicalDecode(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// sha256Hex returns the lowercase-hex sha256 digest of data.
func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
