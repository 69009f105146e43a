// Package blob implements the opaque value codec used for structured
// database columns. Values are stored as self-describing JSON text so rows
// stay inspectable with plain SQL tooling and survive schema-free evolution
// of the value shape.
package blob

import (
	"encoding/json"
	"fmt"
)

// Blob is the stored form of an encoded value.
type Blob []byte

// EncodeError reports a value the codec cannot represent.
type EncodeError struct {
	Type string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("blob: encode %s: %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports a malformed blob or a blob whose content does not
// match the requested type's shape.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("blob: decode %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodePolicy names what a store does when a stored blob fails to decode.
// Each store pins exactly one policy as a constant next to its decode call,
// making the propagate-or-degrade choice reviewable instead of implicit.
type DecodePolicy int

const (
	// DecodeStrict propagates decode failures to the caller. Used where a
	// misread blob would misreport state (the vote roster).
	DecodeStrict DecodePolicy = iota
	// DecodeLenient degrades decode failures to an absent value. Used where
	// stale or corrupt data must not take down unrelated callers (options).
	DecodeLenient
)

// Tolerates reports whether the policy degrades malformed blobs to absence.
func (p DecodePolicy) Tolerates() bool { return p == DecodeLenient }

func (p DecodePolicy) String() string {
	switch p {
	case DecodeStrict:
		return "strict"
	case DecodeLenient:
		return "lenient"
	default:
		return fmt.Sprintf("decode policy %d", int(p))
	}
}

// Encode serializes v into a Blob.
func Encode[T any](v T) (Blob, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &EncodeError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return Blob(data), nil
}

// Decode parses data into a value of type T. The zero value is returned on
// failure; partial decodes never leak.
func Decode[T any](data Blob) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, &DecodeError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return v, nil
}
