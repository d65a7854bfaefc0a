// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"testing"
)

// heartbeat is a small protocol message used to exercise the
// Encodable/Decodable plumbing: a 3-element array of sequence number,
// source name and an opaque payload.
type heartbeat struct {
	Sequence uint64
	Source   string
	Payload  ByteVec
}

func (h *heartbeat) EncodeCBOR(e *Encoder) error {
	if err := e.Array(3); err != nil {
		return err
	}
	if err := e.Uint64(h.Sequence); err != nil {
		return err
	}
	if err := e.String(h.Source); err != nil {
		return err
	}
	return e.Bytes(h.Payload)
}

func (h *heartbeat) DecodeCBOR(d *Decoder) error {
	start := d.Position()
	length, indef, err := d.Array()
	if err != nil {
		return err
	}
	if indef || length != 3 {
		return NewDecodeError("heartbeat must be a 3-element array").At(start)
	}
	if h.Sequence, err = d.Uint64(); err != nil {
		return err
	}
	if h.Source, err = d.String(); err != nil {
		return err
	}
	return h.Payload.DecodeCBOR(d)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()
	in := &heartbeat{Sequence: 42, Source: "relay-7", Payload: ByteVec{1, 2, 3}}
	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out heartbeat
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Sequence != in.Sequence || out.Source != in.Source || !bytes.Equal(out.Payload, in.Payload) {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestUnmarshalIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()
	data, err := Marshal(&heartbeat{Sequence: 1, Source: "a"})
	if err != nil {
		t.Fatal(err)
	}
	data = append(data, 0xde, 0xad)
	var out heartbeat
	if err := Unmarshal(data, &out); err != nil {
		t.Errorf("Unmarshal with trailing bytes: %v", err)
	}
}

// optionalNote is an Encodable whose nil pointer encodes as null.
type optionalNote struct {
	text string
}

func (n *optionalNote) EncodeCBOR(e *Encoder) error {
	return e.String(n.text)
}

func (n *optionalNote) IsNil() bool {
	return n == nil
}

func TestEncodeNilerWritesNull(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	var absent *optionalNote
	if err := NewEncoder(&buf).Encode(absent); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xf6}) {
		t.Errorf("nil value: got %x, want f6", buf.Bytes())
	}

	buf.Reset()
	if err := NewEncoder(&buf).Encode(&optionalNote{text: "hi"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), hexBytes(t, "626869")) {
		t.Errorf("present value: got %x, want 626869", buf.Bytes())
	}
}

func TestMarshalContextReachesEncoder(t *testing.T) {
	t.Parallel()
	var seen any
	v := encodableFunc(func(e *Encoder) error {
		seen = e.Context()
		return e.Null()
	})
	if _, err := MarshalContext(v, "threaded"); err != nil {
		t.Fatal(err)
	}
	if seen != "threaded" {
		t.Errorf("context: got %v, want threaded", seen)
	}
}

func TestUnmarshalContextReachesDecoder(t *testing.T) {
	t.Parallel()
	var seen any
	v := decodableFunc(func(d *Decoder) error {
		seen = d.Context()
		return d.Null()
	})
	if err := UnmarshalContext([]byte{0xf6}, v, "threaded"); err != nil {
		t.Fatal(err)
	}
	if seen != "threaded" {
		t.Errorf("context: got %v, want threaded", seen)
	}
}

// encodableFunc and decodableFunc adapt closures to the codec
// interfaces for tests.
type encodableFunc func(*Encoder) error

func (f encodableFunc) EncodeCBOR(e *Encoder) error { return f(e) }

type decodableFunc func(*Decoder) error

func (f decodableFunc) DecodeCBOR(d *Decoder) error { return f(d) }

func TestByteSliceBorrows(t *testing.T) {
	t.Parallel()
	input := hexBytes(t, "4401020304")
	var s ByteSlice
	if err := Unmarshal(input, &s); err != nil {
		t.Fatal(err)
	}
	input[1] = 0x7f
	if s[0] != 0x7f {
		t.Error("ByteSlice copied, want a view into the input")
	}
}

func TestByteVecCopies(t *testing.T) {
	t.Parallel()
	input := hexBytes(t, "4401020304")
	var v ByteVec
	if err := Unmarshal(input, &v); err != nil {
		t.Fatal(err)
	}
	input[1] = 0x7f
	if v[0] != 1 {
		t.Error("ByteVec borrowed, want an owned copy")
	}
}

func TestByteVecReusesCapacity(t *testing.T) {
	t.Parallel()
	v := make(ByteVec, 0, 64)
	storage := &v[:1][0]
	if err := Unmarshal(hexBytes(t, "4401020304"), &v); err != nil {
		t.Fatal(err)
	}
	if &v[0] != storage {
		t.Error("ByteVec reallocated despite sufficient capacity")
	}
}

func TestByteContainersNilVersusEmpty(t *testing.T) {
	t.Parallel()
	if !ByteSlice(nil).IsNil() || (ByteSlice{}).IsNil() {
		t.Error("ByteSlice IsNil conflates nil and empty")
	}
	if !ByteVec(nil).IsNil() || (ByteVec{}).IsNil() {
		t.Error("ByteVec IsNil conflates nil and empty")
	}
}
