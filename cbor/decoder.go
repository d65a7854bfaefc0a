// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/x448/float16"
)

// Decoder reads CBOR items from a caller-owned byte slice. The decoder
// borrows the buffer and never copies it: [Decoder.Bytes] returns views
// into the input that stay valid as long as the input does.
//
// The cursor only moves forward during decoding, and a successful
// decode advances it by exactly the wire size of the item. A Decoder is
// not safe for concurrent use.
type Decoder struct {
	buf []byte
	pos int
	ctx any
}

// NewDecoder returns a decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// SetContext attaches a caller-supplied context value. The codec never
// inspects it; [Decodable] implementations retrieve it with
// [Decoder.Context] to carry state such as recursion limits or
// interning tables through nested decode calls.
func (d *Decoder) SetContext(ctx any) {
	d.ctx = ctx
}

// Context returns the value set by [Decoder.SetContext], or nil.
func (d *Decoder) Context() any {
	return d.ctx
}

// Position returns the current byte offset into the input.
func (d *Decoder) Position() int {
	return d.pos
}

// SetPosition moves the cursor. Positions obtained from
// [Decoder.Position] are the only valid arguments; anything else is
// programmer error and later reads may fail or misparse.
func (d *Decoder) SetPosition(pos int) {
	d.pos = pos
}

// Probe returns a copy of the decoder for look-ahead. Decoding through
// the probe does not disturb the original; both share the input buffer.
func (d *Decoder) Probe() Decoder {
	return *d
}

// Decode decodes the next item into v.
func (d *Decoder) Decode(v Decodable) error {
	return v.DecodeCBOR(d)
}

// peek returns the byte at the cursor without consuming it.
func (d *Decoder) peek() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, newEndOfInput(d.pos)
	}
	return d.buf[d.pos], nil
}

// readByte consumes and returns the byte at the cursor.
func (d *Decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, newEndOfInput(d.pos)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// readSlice consumes n bytes and returns them as a view into the
// input. A length that would move the cursor past the end of the
// buffer is end-of-input; a length that cannot even be added to the
// cursor without overflowing int is reported as overflow rather than
// wrapping.
func (d *Decoder) readSlice(n uint64) ([]byte, error) {
	if n > uint64(len(d.buf)-d.pos) {
		if n > uint64(math.MaxInt-d.pos) {
			return nil, newOverflow(d.pos, n, "buffer position")
		}
		return nil, newEndOfInput(d.pos)
	}
	s := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return s, nil
}

// uhead decodes the unsigned argument following an initial byte whose
// additional information is info. Inline values (0–23) consume nothing
// further; 24–27 consume 1, 2, 4 or 8 extension bytes.
func (d *Decoder) uhead(start int, info byte) (uint64, error) {
	switch {
	case info <= 0x17:
		return uint64(info), nil
	case info == 0x18:
		b, err := d.readByte()
		return uint64(b), err
	case info == 0x19:
		s, err := d.readSlice(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint16(s)), nil
	case info == 0x1a:
		s, err := d.readSlice(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.BigEndian.Uint32(s)), nil
	case info == 0x1b:
		s, err := d.readSlice(8)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint64(s), nil
	default:
		return 0, newTypeMismatch(start, TypeUnknown, "expected definite length argument")
	}
}

// Datatype classifies the item at the cursor without consuming it.
// A negative integer in 8-byte form whose magnitude exceeds the int64
// range is reported as [TypeInt] (only [Decoder.Int] can represent it).
func (d *Decoder) Datatype() (Type, error) {
	b, err := d.peek()
	if err != nil {
		return TypeUnknown, err
	}
	t := classify(b)
	if b == 0x3b && d.pos+9 <= len(d.buf) {
		magnitude := binary.BigEndian.Uint64(d.buf[d.pos+1 : d.pos+9])
		if magnitude > math.MaxInt64 {
			t = TypeInt
		}
	}
	return t, nil
}

// Bool decodes a boolean.
func (d *Decoder) Bool() (bool, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0xf4:
		return false, nil
	case 0xf5:
		return true, nil
	default:
		return false, newTypeMismatch(start, classify(b), "expected bool")
	}
}

// Null decodes a null value.
func (d *Decoder) Null() error {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return err
	}
	if b != 0xf6 {
		return newTypeMismatch(start, classify(b), "expected null")
	}
	return nil
}

// Undefined decodes an undefined value.
func (d *Decoder) Undefined() error {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return err
	}
	if b != 0xf7 {
		return newTypeMismatch(start, classify(b), "expected undefined")
	}
	return nil
}

// Uint8 decodes an unsigned integer that fits in 8 bits. Non-minimal
// encodings of in-range values are accepted.
func (d *Decoder) Uint8() (uint8, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b <= 0x17:
		return b, nil
	case b == 0x18:
		return d.readByte()
	default:
		return 0, newTypeMismatch(start, classify(b), "expected uint8")
	}
}

// Uint16 decodes an unsigned integer that fits in 16 bits.
func (d *Decoder) Uint16() (uint16, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b <= 0x17:
		return uint16(b), nil
	case b == 0x18:
		v, err := d.readByte()
		return uint16(v), err
	case b == 0x19:
		s, err := d.readSlice(2)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint16(s), nil
	default:
		return 0, newTypeMismatch(start, classify(b), "expected uint16")
	}
}

// Uint32 decodes an unsigned integer that fits in 32 bits.
func (d *Decoder) Uint32() (uint32, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b <= 0x17:
		return uint32(b), nil
	case b == 0x18:
		v, err := d.readByte()
		return uint32(v), err
	case b == 0x19:
		s, err := d.readSlice(2)
		if err != nil {
			return 0, err
		}
		return uint32(binary.BigEndian.Uint16(s)), nil
	case b == 0x1a:
		s, err := d.readSlice(4)
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint32(s), nil
	default:
		return 0, newTypeMismatch(start, classify(b), "expected uint32")
	}
}

// Uint64 decodes an unsigned integer of any width.
func (d *Decoder) Uint64() (uint64, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if majorOf(b) != majorUnsigned {
		return 0, newTypeMismatch(start, classify(b), "expected uint64")
	}
	return d.uhead(start, infoOf(b))
}

// Int8 decodes a signed integer that fits in 8 bits. Both unsigned and
// negative wire forms are accepted when the value is in range.
func (d *Decoder) Int8() (int8, error) {
	v, err := d.signed(math.MaxInt8, "int8")
	return int8(v), err
}

// Int16 decodes a signed integer that fits in 16 bits.
func (d *Decoder) Int16() (int16, error) {
	v, err := d.signed(math.MaxInt16, "int16")
	return int16(v), err
}

// Int32 decodes a signed integer that fits in 32 bits.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.signed(math.MaxInt32, "int32")
	return int32(v), err
}

// Int64 decodes a signed integer of any width.
func (d *Decoder) Int64() (int64, error) {
	return d.signed(math.MaxInt64, "int64")
}

// signed decodes an integer of either major type 0 or 1 whose
// magnitude is bounded by limit (the positive maximum of the target
// width; the negative range extends to -1-limit).
func (d *Decoder) signed(limit uint64, what string) (int64, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch majorOf(b) {
	case majorUnsigned:
		magnitude, err := d.uhead(start, infoOf(b))
		if err != nil {
			return 0, err
		}
		if magnitude > limit {
			return 0, newOverflow(start, magnitude, what)
		}
		return int64(magnitude), nil
	case majorNegative:
		magnitude, err := d.uhead(start, infoOf(b))
		if err != nil {
			return 0, err
		}
		if magnitude > limit {
			return 0, newOverflow(start, magnitude, what)
		}
		return -1 - int64(magnitude), nil
	default:
		return 0, newTypeMismatch(start, classify(b), "expected "+what)
	}
}

// Int decodes an integer of the full CBOR range [-2^64, 2^64-1].
func (d *Decoder) Int() (Int, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return Int{}, err
	}
	switch majorOf(b) {
	case majorUnsigned:
		magnitude, err := d.uhead(start, infoOf(b))
		if err != nil {
			return Int{}, err
		}
		return Int{magnitude: magnitude}, nil
	case majorNegative:
		magnitude, err := d.uhead(start, infoOf(b))
		if err != nil {
			return Int{}, err
		}
		return Int{negative: true, magnitude: magnitude}, nil
	default:
		return Int{}, newTypeMismatch(start, classify(b), "expected integer")
	}
}

// Float16 decodes a half-precision float, widened to float32.
func (d *Decoder) Float16() (float32, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xf9 {
		return 0, newTypeMismatch(start, classify(b), "expected float16")
	}
	s, err := d.readSlice(2)
	if err != nil {
		return 0, err
	}
	return float16.Frombits(binary.BigEndian.Uint16(s)).Float32(), nil
}

// Float32 decodes a single-precision float. Half-precision input is
// accepted and widened.
func (d *Decoder) Float32() (float32, error) {
	b, err := d.peek()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xf9:
		return d.Float16()
	case 0xfa:
		d.pos++
		s, err := d.readSlice(4)
		if err != nil {
			return 0, err
		}
		return math.Float32frombits(binary.BigEndian.Uint32(s)), nil
	default:
		return 0, newTypeMismatch(d.pos, classify(b), "expected float32")
	}
}

// Float64 decodes a double-precision float. Half and single precision
// input is accepted and widened.
func (d *Decoder) Float64() (float64, error) {
	b, err := d.peek()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xf9, 0xfa:
		v, err := d.Float32()
		return float64(v), err
	case 0xfb:
		d.pos++
		s, err := d.readSlice(8)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(s)), nil
	default:
		return 0, newTypeMismatch(d.pos, classify(b), "expected float64")
	}
}

// Bytes decodes a definite-length byte string and returns it as a view
// into the input buffer. See [Decoder.BytesIter] for indefinite-length
// byte strings and [ByteVec] for an owning decode.
func (d *Decoder) Bytes() ([]byte, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if majorOf(b) != majorBytes || infoOf(b) == indefinite {
		return nil, newTypeMismatch(start, classify(b), "expected bytes (definite length)")
	}
	length, err := d.uhead(start, infoOf(b))
	if err != nil {
		return nil, err
	}
	return d.readSlice(length)
}

// BytesFixed decodes a definite-length byte string into dst. The wire
// length must equal len(dst) exactly; a shorter or longer string is a
// decode error and consumes nothing beyond the header.
func (d *Decoder) BytesFixed(dst []byte) error {
	start := d.pos
	s, err := d.Bytes()
	if err != nil {
		return err
	}
	if len(s) != len(dst) {
		return NewDecodeError("byte string length mismatch").At(start)
	}
	copy(dst, s)
	return nil
}

// String decodes a definite-length text string. The bytes are
// validated as UTF-8; invalid text is a decode error carrying the
// position of the string header. See [Decoder.StringIter] for
// indefinite-length text.
func (d *Decoder) String() (string, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return "", err
	}
	if majorOf(b) != majorText || infoOf(b) == indefinite {
		return "", newTypeMismatch(start, classify(b), "expected text (definite length)")
	}
	length, err := d.uhead(start, infoOf(b))
	if err != nil {
		return "", err
	}
	s, err := d.readSlice(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(s) {
		return "", NewDecodeError("invalid UTF-8 in text string").At(start)
	}
	return string(s), nil
}

// Array decodes an array header. For a definite-length array the
// declared element count is returned; for an indefinite-length array
// indef is true and the caller must consume elements until the break
// marker (most easily through [Decoder.ArrayIter]).
func (d *Decoder) Array() (length uint64, indef bool, err error) {
	return d.containerHeader(majorArray, "expected array")
}

// Map decodes a map header. The returned length is the declared number
// of key/value pairs; for indefinite-length maps indef is true.
func (d *Decoder) Map() (length uint64, indef bool, err error) {
	return d.containerHeader(majorMap, "expected map")
}

func (d *Decoder) containerHeader(major byte, expected string) (uint64, bool, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, false, err
	}
	if majorOf(b) != major {
		return 0, false, newTypeMismatch(start, classify(b), expected)
	}
	if infoOf(b) == indefinite {
		return 0, true, nil
	}
	length, err := d.uhead(start, infoOf(b))
	return length, false, err
}

// Tag decodes a semantic tag header. The tagged item follows and must
// be decoded separately.
func (d *Decoder) Tag() (Tag, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if majorOf(b) != majorTag {
		return 0, newTypeMismatch(start, classify(b), "expected tag")
	}
	n, err := d.uhead(start, infoOf(b))
	return Tag(n), err
}

// Simple decodes a simple value (major type 7). Booleans, null,
// undefined, floats and break are not simple values and are rejected.
func (d *Decoder) Simple() (uint8, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b >= majorSimple && b <= 0xf3:
		return b - majorSimple, nil
	case b == 0xf8:
		return d.readByte()
	default:
		return 0, newTypeMismatch(start, classify(b), "expected simple value")
	}
}
