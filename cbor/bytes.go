// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

// ByteSlice is a byte string that decodes as a borrowed view into the
// decoder's input buffer. It is the zero-copy representation: the
// slice is only valid as long as the input buffer is, and mutating the
// input mutates the slice.
//
// Distinct byte-container types exist so that "a byte string" and "an
// array of small integers" never collide during encode/decode
// dispatch: ByteSlice and [ByteVec] always use major type 2, never an
// element-wise array.
type ByteSlice []byte

// EncodeCBOR writes the value as a definite-length byte string.
func (b ByteSlice) EncodeCBOR(e *Encoder) error {
	return e.Bytes(b)
}

// DecodeCBOR reads a definite-length byte string as a view into the
// decoder's input.
func (b *ByteSlice) DecodeCBOR(d *Decoder) error {
	s, err := d.Bytes()
	if err != nil {
		return err
	}
	*b = s
	return nil
}

// IsNil reports whether the slice is absent (nil, as opposed to
// present but empty).
func (b ByteSlice) IsNil() bool {
	return b == nil
}

// ByteVec is a byte string that decodes into owned, growable storage.
// Existing capacity is reused across decodes, so a ByteVec can be
// recycled in a read loop without reallocating.
type ByteVec []byte

// EncodeCBOR writes the value as a definite-length byte string.
func (b ByteVec) EncodeCBOR(e *Encoder) error {
	return e.Bytes(b)
}

// DecodeCBOR reads a definite-length byte string, copying it into the
// vector's own storage.
func (b *ByteVec) DecodeCBOR(d *Decoder) error {
	s, err := d.Bytes()
	if err != nil {
		return err
	}
	*b = append((*b)[:0], s...)
	return nil
}

// IsNil reports whether the vector is absent.
func (b ByteVec) IsNil() bool {
	return b == nil
}
