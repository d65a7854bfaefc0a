// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import "bytes"

// Encodable is implemented by types that can write themselves as CBOR
// through primitive encoder calls. Implementations return the first
// encoder error unmodified.
type Encodable interface {
	EncodeCBOR(e *Encoder) error
}

// Decodable is implemented by types that can read themselves from a
// decoder. Implementations return the first decode error unmodified.
type Decodable interface {
	DecodeCBOR(d *Decoder) error
}

// Niler is implemented by types whose values can be absent. When an
// Encodable also implements Niler and reports nil, [Encoder.Encode]
// writes CBOR null instead of calling EncodeCBOR. Any type can opt
// into optionality this way; no dedicated option wrapper is required.
type Niler interface {
	IsNil() bool
}

// Marshal encodes v into a new byte slice.
func Marshal(v Encodable) ([]byte, error) {
	return MarshalContext(v, nil)
}

// MarshalContext is [Marshal] with a decoding context attached to the
// encoder for the duration of the call.
func MarshalContext(v Encodable, ctx any) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	e.SetContext(ctx)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes one CBOR item from data into v. Trailing bytes
// after the item are not an error; use a [Decoder] directly to process
// CBOR sequences.
func Unmarshal(data []byte, v Decodable) error {
	return UnmarshalContext(data, v, nil)
}

// UnmarshalContext is [Unmarshal] with a decoding context attached to
// the decoder for the duration of the call.
func UnmarshalContext(data []byte, v Decodable, ctx any) error {
	d := NewDecoder(data)
	d.SetContext(ctx)
	return v.DecodeCBOR(d)
}
