package domain

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// DecodeForecast decodes an upstream forecast response body.
//
// The payload is parsed into a generic value tree and then mapped field by
// field. Optional fields that are absent, null or of the wrong type are left
// absent. A required field that is absent or mistyped fails the whole decode
// with a *MissingFieldError, wherever it sits in the document. Input that is
// not a JSON object fails with ErrMalformedPayload.
func DecodeForecast(data []byte) (Forecast, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return Forecast{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return Forecast{}, fmt.Errorf("%w: top level is %s, want object", ErrMalformedPayload, jsonKind(tree))
	}
	return decodeObject(forecastFields, obj, decodeState{mode: modeJSON})
}

type decodeMode uint8

const (
	modeJSON decodeMode = iota
	modeBinary
)

// decodeState carries the codec in use and the path of the object being
// decoded, for error messages.
type decodeState struct {
	mode decodeMode
	path string
}

func (s decodeState) at(name string) decodeState {
	if s.path == "" {
		return decodeState{mode: s.mode, path: name}
	}
	return decodeState{mode: s.mode, path: s.path + "." + name}
}

func (s decodeState) index(i int) decodeState {
	return decodeState{mode: s.mode, path: s.path + "[" + strconv.Itoa(i) + "]"}
}

func (s decodeState) where() string {
	if s.path == "" {
		return "document"
	}
	return s.path
}

// missing reports a required field that is absent or mistyped.
func (s decodeState) missing(name string) error {
	err := &MissingFieldError{Field: name, Path: s.path}
	if s.mode == modeBinary {
		return fmt.Errorf("%w: %w", ErrCorruptBinary, err)
	}
	return err
}

// mismatch handles an optional field holding a value of the wrong type. JSON
// input tolerates it (the field stays absent); binary input was written by
// this package, so it is corrupt.
func (s decodeState) mismatch(name string, v any) error {
	if s.mode == modeJSON {
		return nil
	}
	return fmt.Errorf("%w: field %q in %s has unexpected type %T", ErrCorruptBinary, name, s.where(), v)
}

func (s decodeState) icon(name, token string) (Icon, error) {
	if s.mode == modeJSON {
		return ParseIcon(token), nil
	}
	icon, ok := iconFromBinaryToken(token)
	if !ok {
		return 0, fmt.Errorf("%w: field %q in %s has unknown icon %q", ErrCorruptBinary, name, s.where(), token)
	}
	return icon, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
