// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbor implements a low-level CBOR codec (RFC 8949) for
// untrusted input. Unlike reflection-based CBOR libraries, this
// package exposes the wire format directly: callers decode and encode
// one primitive or container header at a time, which makes the cost of
// every operation visible and keeps the decoder allocation-free on the
// hot path.
//
// The decoder walks a caller-owned byte slice with a cursor and never
// reads past the end of the buffer, never wraps its position counter,
// and never recurses on input-controlled depth. Malformed input is
// reported through [DecodeError] values carrying the byte offset at
// which the problem was detected; the decoder does not panic on bad
// bytes, only on programmer misuse.
//
// # Encoding form
//
// The encoder always emits preferred serialization: integers and
// container lengths use the shortest width that represents the value
// (0–23 inline in the header byte, then 1, 2, 4 or 8 byte extensions).
// The decoder is deliberately lenient and also accepts non-minimal
// encodings produced by other writers.
//
// Definite containers ([Encoder.Array], [Encoder.Map]) declare their
// element count in the header. Indefinite containers
// ([Encoder.BeginArray], [Encoder.BeginMap], [Encoder.BeginBytes],
// [Encoder.BeginString]) are terminated by [Encoder.End]; use them when
// the element count is not known before encoding starts.
//
// # Typed values
//
// Types implement the [Encodable] and [Decodable] interfaces to
// serialize themselves through primitive calls:
//
//	func (p Point) EncodeCBOR(e *cbor.Encoder) error {
//		if err := e.Array(2); err != nil {
//			return err
//		}
//		if err := e.Int64(p.X); err != nil {
//			return err
//		}
//		return e.Int64(p.Y)
//	}
//
// Schema-aware layers can thread auxiliary state (recursion limits,
// interning tables) through [Encoder.SetContext] and
// [Decoder.SetContext]; the core never inspects the context value.
//
// # Capability tiers
//
// The codec is designed so that the hot path works without dynamic
// allocation: decoding borrows from the input buffer ([Decoder.Bytes],
// [ByteSlice]) and [Decoder.SkipNoAlloc] skips values without heap use,
// at the documented cost of not supporting indefinite-length containers
// nested inside other containers. The full-capability operations
// ([Decoder.Skip], [ByteVec], [Marshal]) allocate as needed. Half-float
// support is always available and backed by github.com/x448/float16.
package cbor
