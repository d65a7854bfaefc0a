// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/x448/float16"
)

// Encoder writes CBOR items to an io.Writer in preferred (minimal
// width) serialization. Sink failures are wrapped in [*EncodeError]
// and returned as-is on every subsequent inspection; the encoder
// performs no internal buffering and no retry.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	w       io.Writer
	ctx     any
	scratch [9]byte
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// SetContext attaches a caller-supplied context value, the encode-side
// counterpart of [Decoder.SetContext].
func (e *Encoder) SetContext(ctx any) {
	e.ctx = ctx
}

// Context returns the value set by [Encoder.SetContext], or nil.
func (e *Encoder) Context() any {
	return e.ctx
}

// Encode encodes v. Values implementing [Niler] that report nil are
// written as CBOR null, which is how optional fields express absence
// without a dedicated option type.
func (e *Encoder) Encode(v Encodable) error {
	if n, ok := v.(Niler); ok && n.IsNil() {
		return e.Null()
	}
	return v.EncodeCBOR(e)
}

// put writes raw bytes to the sink, wrapping any failure.
func (e *Encoder) put(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return &EncodeError{err: err}
	}
	return nil
}

// putHead writes an initial byte for the given major type with the
// minimal-width argument encoding: 0-23 inline, then 1, 2, 4 or 8
// extension bytes. This single ladder is what makes every integer and
// length the encoder emits canonical.
func (e *Encoder) putHead(major byte, n uint64) error {
	s := e.scratch[:]
	switch {
	case n <= 0x17:
		s[0] = major | byte(n)
		s = s[:1]
	case n <= 0xff:
		s[0] = major | 0x18
		s[1] = byte(n)
		s = s[:2]
	case n <= 0xffff:
		s[0] = major | 0x19
		binary.BigEndian.PutUint16(s[1:3], uint16(n))
		s = s[:3]
	case n <= 0xffffffff:
		s[0] = major | 0x1a
		binary.BigEndian.PutUint32(s[1:5], uint32(n))
		s = s[:5]
	default:
		s[0] = major | 0x1b
		binary.BigEndian.PutUint64(s[1:9], n)
		s = s[:9]
	}
	return e.put(s)
}

// Bool encodes a boolean.
func (e *Encoder) Bool(v bool) error {
	if v {
		return e.put([]byte{0xf5})
	}
	return e.put([]byte{0xf4})
}

// Null encodes a null value.
func (e *Encoder) Null() error {
	return e.put([]byte{0xf6})
}

// Undefined encodes an undefined value.
func (e *Encoder) Undefined() error {
	return e.put([]byte{0xf7})
}

// Uint8 encodes an unsigned integer.
func (e *Encoder) Uint8(v uint8) error {
	return e.putHead(majorUnsigned, uint64(v))
}

// Uint16 encodes an unsigned integer.
func (e *Encoder) Uint16(v uint16) error {
	return e.putHead(majorUnsigned, uint64(v))
}

// Uint32 encodes an unsigned integer.
func (e *Encoder) Uint32(v uint32) error {
	return e.putHead(majorUnsigned, uint64(v))
}

// Uint64 encodes an unsigned integer.
func (e *Encoder) Uint64(v uint64) error {
	return e.putHead(majorUnsigned, v)
}

// Int8 encodes a signed integer.
func (e *Encoder) Int8(v int8) error {
	return e.Int64(int64(v))
}

// Int16 encodes a signed integer.
func (e *Encoder) Int16(v int16) error {
	return e.Int64(int64(v))
}

// Int32 encodes a signed integer.
func (e *Encoder) Int32(v int32) error {
	return e.Int64(int64(v))
}

// Int64 encodes a signed integer. Non-negative values use major type 0
// regardless of the in-memory type, so the wire form depends only on
// the value.
func (e *Encoder) Int64(v int64) error {
	if v >= 0 {
		return e.putHead(majorUnsigned, uint64(v))
	}
	// ^v is -1-v, the magnitude of a major type 1 value. This holds
	// for math.MinInt64 too, where -v itself would overflow.
	return e.putHead(majorNegative, uint64(^v))
}

// Int encodes a full-range integer.
func (e *Encoder) Int(v Int) error {
	if v.negative {
		return e.putHead(majorNegative, v.magnitude)
	}
	return e.putHead(majorUnsigned, v.magnitude)
}

// Float16 encodes v as a half-precision float. The conversion is
// lossy for values outside the float16 range or precision; callers opt
// in explicitly. Use [Encoder.Float32] for lossless single precision.
func (e *Encoder) Float16(v float32) error {
	bits := float16.Fromfloat32(v).Bits()
	s := e.scratch[:3]
	s[0] = 0xf9
	binary.BigEndian.PutUint16(s[1:3], bits)
	return e.put(s)
}

// Float32 encodes a single-precision float.
func (e *Encoder) Float32(v float32) error {
	s := e.scratch[:5]
	s[0] = 0xfa
	binary.BigEndian.PutUint32(s[1:5], math.Float32bits(v))
	return e.put(s)
}

// Float64 encodes a double-precision float.
func (e *Encoder) Float64(v float64) error {
	s := e.scratch[:9]
	s[0] = 0xfb
	binary.BigEndian.PutUint64(s[1:9], math.Float64bits(v))
	return e.put(s)
}

// Bytes encodes a definite-length byte string.
func (e *Encoder) Bytes(v []byte) error {
	if err := e.putHead(majorBytes, uint64(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	return e.put(v)
}

// String encodes a definite-length text string. The caller is
// responsible for v being valid UTF-8, which Go string handling
// normally guarantees.
func (e *Encoder) String(v string) error {
	if err := e.putHead(majorText, uint64(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	return e.put([]byte(v))
}

// Array encodes a definite-length array header. Exactly length
// elements must follow.
func (e *Encoder) Array(length uint64) error {
	return e.putHead(majorArray, length)
}

// Map encodes a definite-length map header. Exactly length key/value
// pairs must follow.
func (e *Encoder) Map(length uint64) error {
	return e.putHead(majorMap, length)
}

// Tag encodes a semantic tag header. The tagged item must follow.
func (e *Encoder) Tag(t Tag) error {
	return e.putHead(majorTag, uint64(t))
}

// Simple encodes a simple value. Values 20-31 are reserved by RFC 8949
// (they collide with bool, null, undefined and the float/extension
// space) and are rejected.
func (e *Encoder) Simple(v uint8) error {
	switch {
	case v <= 0x13:
		return e.put([]byte{majorSimple | v})
	case v <= 0x1f:
		return fmt.Errorf("cbor: simple value %d is reserved", v)
	default:
		return e.put([]byte{0xf8, v})
	}
}

// BeginBytes starts an indefinite-length byte string. Each segment is
// written with [Encoder.Bytes]; [Encoder.End] terminates it.
func (e *Encoder) BeginBytes() error {
	return e.put([]byte{majorBytes | indefinite})
}

// BeginString starts an indefinite-length text string. Each segment is
// written with [Encoder.String]; [Encoder.End] terminates it.
func (e *Encoder) BeginString() error {
	return e.put([]byte{majorText | indefinite})
}

// BeginArray starts an indefinite-length array, terminated by
// [Encoder.End]. Use this when the element count is unknown before
// encoding starts; otherwise prefer [Encoder.Array].
func (e *Encoder) BeginArray() error {
	return e.put([]byte{majorArray | indefinite})
}

// BeginMap starts an indefinite-length map, terminated by
// [Encoder.End].
func (e *Encoder) BeginMap() error {
	return e.put([]byte{majorMap | indefinite})
}

// End writes the break marker terminating an indefinite-length
// container.
func (e *Encoder) End() error {
	return e.put([]byte{breakByte})
}
