// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bureau-foundation/cborwire/cbor"
)

func TestAssemblerWholeFrames(t *testing.T) {
	t.Parallel()
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "a"})
	if err != nil {
		t.Fatal(err)
	}
	framed, err = AppendFrame(framed, &event{Sequence: 2, Source: "b"})
	if err != nil {
		t.Fatal(err)
	}

	a := NewAssembler()
	a.Push(framed)
	for want := uint64(1); want <= 2; want++ {
		payload, err := a.Next()
		if err != nil {
			t.Fatal(err)
		}
		var got event
		if err := cbor.Unmarshal(payload, &got); err != nil {
			t.Fatal(err)
		}
		if got.Sequence != want {
			t.Errorf("frame: got sequence %d, want %d", got.Sequence, want)
		}
	}
	// Both frames drained, stream still open: suspend.
	if payload, err := a.Next(); payload != nil || err != nil {
		t.Errorf("drained assembler: got %x, %v, want nil, nil", payload, err)
	}
}

func TestAssemblerByteByByteFeed(t *testing.T) {
	t.Parallel()
	sent := &event{Sequence: 7, Source: "drip", Payload: cbor.ByteVec{9, 8, 7}}
	framed, err := AppendFrame(nil, sent)
	if err != nil {
		t.Fatal(err)
	}

	a := NewAssembler()
	var got *event
	for _, b := range framed {
		payload, err := a.Next()
		if err != nil {
			t.Fatal(err)
		}
		if payload != nil {
			t.Fatal("frame completed before all bytes were pushed")
		}
		a.Push([]byte{b})
	}
	payload, err := a.Next()
	if err != nil {
		t.Fatal(err)
	}
	if payload == nil {
		t.Fatal("frame not complete after final byte")
	}
	got = &event{}
	if err := cbor.Unmarshal(payload, got); err != nil {
		t.Fatal(err)
	}
	if !sameEvent(got, sent) {
		t.Errorf("round trip: got %+v, want %+v", got, sent)
	}
}

func TestAssemblerSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	// Two frames delivered as three chunks whose boundaries fall
	// mid-prefix and mid-payload.
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "chunked"})
	if err != nil {
		t.Fatal(err)
	}
	framed, err = AppendFrame(framed, &event{Sequence: 2, Source: "chunked"})
	if err != nil {
		t.Fatal(err)
	}
	cut1, cut2 := 2, len(framed)/2+3

	a := NewAssembler()
	var sequences []uint64
	for _, chunk := range [][]byte{framed[:cut1], framed[cut1:cut2], framed[cut2:]} {
		a.Push(chunk)
		for {
			payload, err := a.Next()
			if err != nil {
				t.Fatal(err)
			}
			if payload == nil {
				break
			}
			var got event
			if err := cbor.Unmarshal(payload, &got); err != nil {
				t.Fatal(err)
			}
			sequences = append(sequences, got.Sequence)
		}
	}
	if len(sequences) != 2 || sequences[0] != 1 || sequences[1] != 2 {
		t.Errorf("sequences: got %v, want [1 2]", sequences)
	}
}

func TestAssemblerCloseAtBoundary(t *testing.T) {
	t.Parallel()
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "a"})
	if err != nil {
		t.Fatal(err)
	}
	a := NewAssembler()
	a.Push(framed)
	a.Close()

	// The buffered complete frame is still delivered after Close.
	payload, err := a.Next()
	if err != nil || payload == nil {
		t.Fatalf("buffered frame after Close: got %x, %v", payload, err)
	}
	if _, err := a.Next(); err != io.EOF {
		t.Errorf("after last frame: got %v, want io.EOF", err)
	}
}

func TestAssemblerCloseMidFrame(t *testing.T) {
	t.Parallel()
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "cut off"})
	if err != nil {
		t.Fatal(err)
	}
	a := NewAssembler()
	a.Push(framed[:len(framed)-1])
	a.Close()

	_, err = a.Next()
	if err == io.EOF {
		t.Fatal("mid-frame closure misreported as clean EOF")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestAssemblerCloseMidPrefix(t *testing.T) {
	t.Parallel()
	a := NewAssembler()
	a.Push([]byte{0x00})
	a.Close()
	if _, err := a.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestAssemblerCloseEmpty(t *testing.T) {
	t.Parallel()
	a := NewAssembler()
	a.Close()
	if _, err := a.Next(); err != io.EOF {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestAssemblerMaxLength(t *testing.T) {
	t.Parallel()
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "far too large for the cap"})
	if err != nil {
		t.Fatal(err)
	}
	a := NewAssembler()
	a.SetMaxLength(4)
	a.Push(framed)
	if _, err := a.Next(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("got %v, want ErrFrameTooLarge", err)
	}
}

func TestAssemblerPushAfterClosePanics(t *testing.T) {
	t.Parallel()
	a := NewAssembler()
	a.Close()
	defer func() {
		if recover() == nil {
			t.Error("Push after Close did not panic")
		}
	}()
	a.Push([]byte{0x00})
}

func TestAssemblerCompressedFrames(t *testing.T) {
	t.Parallel()
	sent := &event{
		Sequence: 11,
		Source:   "compressed",
		Payload:  cbor.ByteVec(strings.Repeat("squeeze ", 400)),
	}
	var stream bytes.Buffer
	w := NewWriter(&stream)
	w.SetCompression(CompressionZstd)
	if _, err := w.Write(sent); err != nil {
		t.Fatal(err)
	}

	a := NewAssembler()
	a.SetCompression(CompressionZstd)
	a.Push(stream.Bytes())
	payload, err := a.Next()
	if err != nil {
		t.Fatal(err)
	}
	var got event
	if err := cbor.Unmarshal(payload, &got); err != nil {
		t.Fatal(err)
	}
	if !sameEvent(&got, sent) {
		t.Error("compressed round trip mismatch")
	}
}

func BenchmarkAssembler(b *testing.B) {
	framed, err := AppendFrame(nil, &event{Sequence: 1, Source: "bench", Payload: cbor.ByteVec(bytes.Repeat([]byte{7}, 128))})
	if err != nil {
		b.Fatal(err)
	}
	a := NewAssembler()
	for i := 0; i < b.N; i++ {
		a.Push(framed)
		if _, err := a.Next(); err != nil {
			b.Fatal(err)
		}
	}
}
