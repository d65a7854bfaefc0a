// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
)

// The interop tests use github.com/fxamacker/cbor as an independent
// oracle: what this package encodes must decode identically elsewhere,
// and vice versa.

func TestInteropIntegerBytesMatchOracle(t *testing.T) {
	t.Parallel()
	// Preferred serialization of integers is unique, so the byte
	// output of both encoders must be identical.
	for _, v := range []uint64{0, 23, 24, 255, 256, 65535, 65536, math.MaxUint32, math.MaxUint64} {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Uint64(v); err != nil {
			t.Fatal(err)
		}
		want, err := fxcbor.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("Uint64(%d): got %x, oracle %x", v, buf.Bytes(), want)
		}
	}
	for _, v := range []int64{-1, -24, -25, -256, -257, math.MinInt64} {
		var buf bytes.Buffer
		if err := NewEncoder(&buf).Int64(v); err != nil {
			t.Fatal(err)
		}
		want, err := fxcbor.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("Int64(%d): got %x, oracle %x", v, buf.Bytes(), want)
		}
	}
}

func TestInteropStringAndBytesMatchOracle(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := NewEncoder(&buf).String("streaming"); err != nil {
		t.Fatal(err)
	}
	want, err := fxcbor.Marshal("streaming")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("String: got %x, oracle %x", buf.Bytes(), want)
	}

	buf.Reset()
	payload := []byte{0, 1, 2, 255}
	if err := NewEncoder(&buf).Bytes(payload); err != nil {
		t.Fatal(err)
	}
	if want, err = fxcbor.Marshal(payload); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Bytes: got %x, oracle %x", buf.Bytes(), want)
	}
}

func TestInteropOracleDecodesOurStructure(t *testing.T) {
	t.Parallel()
	// A heterogeneous array written through primitive calls.
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	for _, step := range []func() error{
		func() error { return e.Array(6) },
		func() error { return e.Uint64(1) },
		func() error { return e.Int64(-5) },
		func() error { return e.String("hi") },
		func() error { return e.Bytes([]byte{1, 2}) },
		func() error { return e.Bool(true) },
		func() error { return e.Null() },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	var got []any
	if err := fxcbor.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("oracle unmarshal: %v", err)
	}
	want := []any{uint64(1), int64(-5), "hi", []byte{1, 2}, true, nil}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("oracle decode: got %#v, want %#v", got, want)
	}
}

func TestInteropOracleDecodesIndefiniteContainers(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	for _, step := range []func() error{
		func() error { return e.BeginArray() },
		func() error { return e.Uint64(7) },
		func() error { return e.Uint64(8) },
		func() error { return e.End() },
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	var got []uint64
	if err := fxcbor.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("oracle unmarshal: %v", err)
	}
	if len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Errorf("oracle decode: got %v", got)
	}
}

func TestInteropDecodeOracleOutput(t *testing.T) {
	t.Parallel()
	values := []uint64{0, 23, 24, 1000, math.MaxUint64}
	data, err := fxcbor.Marshal(values)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSlice(NewDecoder(data), (*Decoder).Uint64)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("decode oracle output: got %v, want %v", got, values)
	}
}

func TestInteropDecodeOracleMap(t *testing.T) {
	t.Parallel()
	values := map[string]int64{"a": -1, "b": 2, "c": math.MinInt64}
	data, err := fxcbor.Marshal(values)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeMapPairs(NewDecoder(data), (*Decoder).String, (*Decoder).Int64)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("decode oracle map: got %v, want %v", got, values)
	}
}

func TestInteropOracleDecodesOurFloats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Float64(1.1); err != nil {
		t.Fatal(err)
	}
	var got float64
	if err := fxcbor.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got != 1.1 {
		t.Errorf("float64: got %v", got)
	}

	buf.Reset()
	if err := NewEncoder(&buf).Float16(1.5); err != nil {
		t.Fatal(err)
	}
	if err := fxcbor.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got != 1.5 {
		t.Errorf("float16: got %v", got)
	}
}

func TestInteropSkipAgreesWithOracle(t *testing.T) {
	t.Parallel()
	// Whatever the oracle encodes, Skip must consume in one piece.
	type record struct {
		Name   string           `cbor:"name"`
		Tags   []string         `cbor:"tags"`
		Counts map[string]int64 `cbor:"counts"`
	}
	data, err := fxcbor.Marshal(record{
		Name:   "node-3",
		Tags:   []string{"a", "b"},
		Counts: map[string]int64{"x": 1, "y": -2},
	})
	if err != nil {
		t.Fatal(err)
	}
	d := NewDecoder(data)
	if err := d.Skip(); err != nil {
		t.Fatal(err)
	}
	if d.Position() != len(data) {
		t.Errorf("cursor: got %d, want %d", d.Position(), len(data))
	}
}
