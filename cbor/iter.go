// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import "unicode/utf8"

// ArrayIter iterates over the elements of an array, definite or
// indefinite. The loop shape follows bufio.Scanner:
//
//	it, err := d.ArrayIter()
//	if err != nil { ... }
//	for it.Next() {
//		v, err := d.Uint64() // decode exactly one element
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Each true return from Next must be matched by decoding exactly one
// element from the decoder. For definite arrays the iterator stops
// after the declared count; for indefinite arrays it stops at the
// break marker, which it consumes without surfacing it as an element.
//
// Stopping early leaves the cursor exactly after the last decoded
// element; the iterator does not skip the remainder. Use
// [Decoder.Skip] from the container header position to discard a whole
// array instead.
type ArrayIter struct {
	d         *Decoder
	remaining uint64
	indef     bool
	done      bool
	err       error
}

// ArrayIter decodes an array header and returns an iterator over its
// elements.
func (d *Decoder) ArrayIter() (*ArrayIter, error) {
	length, indef, err := d.Array()
	if err != nil {
		return nil, err
	}
	return &ArrayIter{d: d, remaining: length, indef: indef}, nil
}

// Next reports whether another element follows. For indefinite arrays
// a failure to find the next header or break marker is recorded and
// reported through [ArrayIter.Err].
func (it *ArrayIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.indef {
		b, err := it.d.peek()
		if err != nil {
			it.err = err
			return false
		}
		if b == breakByte {
			it.d.pos++
			it.done = true
			return false
		}
		return true
	}
	if it.remaining == 0 {
		it.done = true
		return false
	}
	it.remaining--
	return true
}

// Err returns the error that stopped iteration, or nil on clean
// termination.
func (it *ArrayIter) Err() error {
	return it.err
}

// MapIter iterates over the entries of a map, definite or indefinite.
// Each true return from Next must be matched by decoding exactly one
// key and one value. Termination semantics match [ArrayIter].
type MapIter struct {
	d         *Decoder
	remaining uint64
	indef     bool
	done      bool
	err       error
}

// MapIter decodes a map header and returns an iterator over its
// entries.
func (d *Decoder) MapIter() (*MapIter, error) {
	length, indef, err := d.Map()
	if err != nil {
		return nil, err
	}
	return &MapIter{d: d, remaining: length, indef: indef}, nil
}

// Next reports whether another entry follows.
func (it *MapIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.indef {
		b, err := it.d.peek()
		if err != nil {
			it.err = err
			return false
		}
		if b == breakByte {
			it.d.pos++
			it.done = true
			return false
		}
		return true
	}
	if it.remaining == 0 {
		it.done = true
		return false
	}
	it.remaining--
	return true
}

// Err returns the error that stopped iteration, or nil.
func (it *MapIter) Err() error {
	return it.err
}

// BytesIter iterates over the segments of a byte string. A definite
// string yields one segment; an indefinite string yields one segment
// per chunk and consumes the terminating break.
type BytesIter struct {
	d       *Decoder
	chunk   []byte
	length  uint64
	indef   bool
	yielded bool
	done    bool
	err     error
}

// BytesIter decodes a byte string header and returns an iterator over
// its segments. Segments are views into the input buffer.
func (d *Decoder) BytesIter() (*BytesIter, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if majorOf(b) != majorBytes {
		return nil, newTypeMismatch(start, classify(b), "expected bytes")
	}
	if infoOf(b) == indefinite {
		return &BytesIter{d: d, indef: true}, nil
	}
	length, err := d.uhead(start, infoOf(b))
	if err != nil {
		return nil, err
	}
	return &BytesIter{d: d, length: length}, nil
}

// Next advances to the next segment.
func (it *BytesIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.indef {
		if it.yielded {
			it.done = true
			return false
		}
		it.yielded = true
		it.chunk, it.err = it.d.readSlice(it.length)
		return it.err == nil
	}
	b, err := it.d.peek()
	if err != nil {
		it.err = err
		return false
	}
	if b == breakByte {
		it.d.pos++
		it.done = true
		return false
	}
	// Chunks of an indefinite byte string must themselves be
	// definite byte strings.
	it.chunk, it.err = it.d.Bytes()
	return it.err == nil
}

// Chunk returns the current segment.
func (it *BytesIter) Chunk() []byte {
	return it.chunk
}

// Err returns the error that stopped iteration, or nil.
func (it *BytesIter) Err() error {
	return it.err
}

// StringIter iterates over the segments of a text string, validating
// each segment as UTF-8. Semantics match [BytesIter].
type StringIter struct {
	d       *Decoder
	chunk   string
	length  uint64
	indef   bool
	yielded bool
	done    bool
	err     error
}

// StringIter decodes a text string header and returns an iterator
// over its segments.
func (d *Decoder) StringIter() (*StringIter, error) {
	start := d.pos
	b, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if majorOf(b) != majorText {
		return nil, newTypeMismatch(start, classify(b), "expected text")
	}
	if infoOf(b) == indefinite {
		return &StringIter{d: d, indef: true}, nil
	}
	length, err := d.uhead(start, infoOf(b))
	if err != nil {
		return nil, err
	}
	return &StringIter{d: d, length: length}, nil
}

// Next advances to the next segment.
func (it *StringIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.indef {
		if it.yielded {
			it.done = true
			return false
		}
		it.yielded = true
		it.chunk, it.err = it.d.textSegment(it.length)
		return it.err == nil
	}
	b, err := it.d.peek()
	if err != nil {
		it.err = err
		return false
	}
	if b == breakByte {
		it.d.pos++
		it.done = true
		return false
	}
	it.chunk, it.err = it.d.String()
	return it.err == nil
}

// textSegment reads length raw bytes as a validated UTF-8 segment.
func (d *Decoder) textSegment(length uint64) (string, error) {
	start := d.pos
	s, err := d.readSlice(length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(s) {
		return "", NewDecodeError("invalid UTF-8 in text string").At(start)
	}
	return string(s), nil
}

// Chunk returns the current segment.
func (it *StringIter) Chunk() string {
	return it.chunk
}

// Err returns the error that stopped iteration, or nil.
func (it *StringIter) Err() error {
	return it.err
}

// DecodeFunc decodes one value of type T from the decoder.
type DecodeFunc[T any] func(*Decoder) (T, error)

// DecodeSlice decodes a homogeneous array into a slice using elem for
// each element. Both definite and indefinite arrays are supported.
func DecodeSlice[T any](d *Decoder, elem DecodeFunc[T]) ([]T, error) {
	it, err := d.ArrayIter()
	if err != nil {
		return nil, err
	}
	var out []T
	for it.Next() {
		v, err := elem(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeMapPairs decodes a homogeneous map using key and value decode
// functions. Both definite and indefinite maps are supported. A
// repeated key overwrites the earlier entry, matching Go map
// semantics.
func DecodeMapPairs[K comparable, V any](d *Decoder, key DecodeFunc[K], value DecodeFunc[V]) (map[K]V, error) {
	it, err := d.MapIter()
	if err != nil {
		return nil, err
	}
	out := make(map[K]V)
	for it.Next() {
		k, err := key(d)
		if err != nil {
			return nil, err
		}
		v, err := value(d)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
