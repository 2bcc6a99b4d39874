package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload reports input that is not a JSON object.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrCorruptBinary reports a binary document whose envelope or structure
	// does not match what EncodeBinary writes.
	ErrCorruptBinary = errors.New("corrupt binary document")
)

// MissingFieldError reports a required field that is absent or has the wrong
// type. Path locates the enclosing object, e.g. "hourly.data[3]".
type MissingFieldError struct {
	Field string
	Path  string
}

func (e *MissingFieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("missing required field %q", e.Field)
	}
	return fmt.Sprintf("missing required field %q in %s", e.Field, e.Path)
}
