package domain

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// binaryTag is the CBOR tag wrapping every encoded forecast. It doubles as the
// format version: a layout change gets a new tag number.
const binaryTag = 27001

var (
	binaryEnc cbor.EncMode
	binaryDec cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: sorted keys and the shortest float width
	// that represents each value exactly.
	binaryEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("domain: cbor encoder: %v", err))
	}
	// Strings are stored as the JSON decoder handed them over, which may
	// include invalid UTF-8.
	binaryDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		UTF8:           cbor.UTF8DecodeInvalid,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("domain: cbor decoder: %v", err))
	}
}

// EncodeBinary serializes a forecast for local persistence. Every field is
// written by name; absent fields are written as null.
func EncodeBinary(f Forecast) ([]byte, error) {
	tree, err := encodeObject(forecastFields, &f)
	if err != nil {
		return nil, fmt.Errorf("encode forecast: %w", err)
	}
	data, err := binaryEnc.Marshal(cbor.Tag{Number: binaryTag, Content: tree})
	if err != nil {
		return nil, fmt.Errorf("encode forecast: %w", err)
	}
	return data, nil
}

// DecodeBinary is the inverse of EncodeBinary. Any deviation from the layout
// EncodeBinary writes fails with ErrCorruptBinary.
func DecodeBinary(data []byte) (Forecast, error) {
	var v any
	if err := binaryDec.Unmarshal(data, &v); err != nil {
		return Forecast{}, fmt.Errorf("%w: %w", ErrCorruptBinary, err)
	}
	tag, ok := v.(cbor.Tag)
	if !ok {
		return Forecast{}, fmt.Errorf("%w: missing envelope tag", ErrCorruptBinary)
	}
	if tag.Number != binaryTag {
		return Forecast{}, fmt.Errorf("%w: envelope tag %d, want %d", ErrCorruptBinary, tag.Number, binaryTag)
	}
	obj, ok := tag.Content.(map[string]any)
	if !ok {
		return Forecast{}, fmt.Errorf("%w: envelope content is %T, want map", ErrCorruptBinary, tag.Content)
	}
	return decodeObject(forecastFields, obj, decodeState{mode: modeBinary})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (f Forecast) MarshalBinary() ([]byte, error) { return EncodeBinary(f) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Forecast) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeBinary(data)
	if err != nil {
		return err
	}
	*f = decoded
	return nil
}
