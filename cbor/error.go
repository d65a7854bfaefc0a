// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"errors"
	"fmt"
)

// decodeErrorKind discriminates the failure classes of a decode. The
// kind is internal: callers classify errors through the package-level
// predicates (IsEndOfInput, IsTypeMismatch, IsOverflow) so that new
// kinds and fields can be added without breaking anyone.
type decodeErrorKind uint8

const (
	kindMessage decodeErrorKind = iota
	kindTypeMismatch
	kindEndOfInput
	kindOverflow
	kindCustom
)

// DecodeError is the failure value of every decode operation. It is an
// opaque struct constructed through factory functions rather than an
// open enumeration; match it with the package predicates or
// [errors.As], never by comparing fields.
type DecodeError struct {
	kind   decodeErrorKind
	msg    string
	found  Type   // type mismatch: what the wire actually holds
	value  uint64 // overflow: the offending value
	cause  error  // custom: wrapped underlying error
	pos    int
	hasPos bool
}

// NewDecodeError returns a message-kind decode error. Intended for
// [Decodable] implementations that reject structurally valid CBOR
// (wrong field count, unknown enum variant, and so on).
func NewDecodeError(msg string) *DecodeError {
	return &DecodeError{kind: kindMessage, msg: msg}
}

// WrapDecodeError returns a decode error carrying err as its cause.
// The cause is reachable through [errors.Unwrap], [errors.Is] and
// [errors.As].
func WrapDecodeError(err error) *DecodeError {
	return &DecodeError{kind: kindCustom, cause: err}
}

func newEndOfInput(pos int) *DecodeError {
	return &DecodeError{kind: kindEndOfInput, pos: pos, hasPos: true}
}

func newTypeMismatch(pos int, found Type, expected string) *DecodeError {
	return &DecodeError{kind: kindTypeMismatch, pos: pos, hasPos: true, found: found, msg: expected}
}

func newOverflow(pos int, value uint64, context string) *DecodeError {
	return &DecodeError{kind: kindOverflow, pos: pos, hasPos: true, value: value, msg: context}
}

// At returns a copy of the error annotated with the given byte
// position. Factory-style so that custom errors created by [Decodable]
// implementations can attach the position they captured before the
// failing read.
func (e *DecodeError) At(pos int) *DecodeError {
	annotated := *e
	annotated.pos = pos
	annotated.hasPos = true
	return &annotated
}

// Position returns the byte offset at which the failure was detected.
// The second return is false when no position is attached (errors
// constructed outside a decoder and not annotated with [DecodeError.At]).
func (e *DecodeError) Position() (int, bool) {
	return e.pos, e.hasPos
}

// Found returns the type actually present on the wire for
// type-mismatch errors, and TypeUnknown for every other kind.
func (e *DecodeError) Found() Type {
	if e.kind != kindTypeMismatch {
		return TypeUnknown
	}
	return e.found
}

func (e *DecodeError) Error() string {
	var text string
	switch e.kind {
	case kindTypeMismatch:
		text = fmt.Sprintf("cbor: %s, found %s", e.msg, e.found)
	case kindEndOfInput:
		text = "cbor: unexpected end of input"
	case kindOverflow:
		text = fmt.Sprintf("cbor: value %d overflows %s", e.value, e.msg)
	case kindCustom:
		text = "cbor: " + e.cause.Error()
	default:
		text = "cbor: " + e.msg
	}
	if e.hasPos {
		text += fmt.Sprintf(" (at position %d)", e.pos)
	}
	return text
}

// Unwrap returns the wrapped cause of a custom error, or nil.
func (e *DecodeError) Unwrap() error {
	return e.cause
}

// IsEndOfInput reports whether err is a decode error caused by the
// input ending before the current item was complete.
func IsEndOfInput(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr) && decodeErr.kind == kindEndOfInput
}

// IsTypeMismatch reports whether err is a decode error caused by the
// wire holding a different type than the operation expected.
func IsTypeMismatch(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr) && decodeErr.kind == kindTypeMismatch
}

// IsOverflow reports whether err is a decode error caused by a value
// or length that does not fit the requested representation.
func IsOverflow(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr) && decodeErr.kind == kindOverflow
}

// EncodeError wraps a sink failure during encoding. The codec adds no
// retry and no buffering: the sink's own error is reachable through
// [errors.Unwrap], and retrying after a sink error is the caller's
// responsibility, starting from a clean sink.
type EncodeError struct {
	err error
}

func (e *EncodeError) Error() string {
	return "cbor: write: " + e.err.Error()
}

// Unwrap returns the underlying sink error.
func (e *EncodeError) Unwrap() error {
	return e.err
}
