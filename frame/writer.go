// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bureau-foundation/cborwire/cbor"
)

// prefixLength is the fixed size of the length prefix: a big-endian
// uint32.
const prefixLength = 4

// DefaultMaxLength is the default cap on a frame's payload size,
// applied on both the write and read paths. It bounds memory per frame
// while leaving room for any reasonable message; raise it with
// SetMaxLength for bulk transfers.
const DefaultMaxLength = 512 * 1024

// ErrFrameTooLarge reports a frame whose payload exceeds the
// configured maximum length, on either path. Match with errors.Is.
var ErrFrameTooLarge = errors.New("frame exceeds maximum length")

// Writer writes length-prefixed CBOR messages to an io.Writer. The
// value is encoded into an internal scratch buffer first, then prefix
// and payload go to the sink in a single Write call, so a frame is
// never partially handed to the transport because of an encoding
// error.
//
// A Writer is not safe for concurrent use. After a sink error the
// stream position is undefined and the Writer must be abandoned; the
// package does not resynchronize broken framing.
type Writer struct {
	w           io.Writer
	scratch     bytes.Buffer
	frame       bytes.Buffer
	maxLength   int
	compression Compression
	compressed  bool
	ctx         any
}

// NewWriter returns a frame writer with the default maximum payload
// length.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, maxLength: DefaultMaxLength}
}

// SetMaxLength caps the payload size of written frames. Encodings
// larger than n fail with [ErrFrameTooLarge] before anything reaches
// the sink.
func (w *Writer) SetMaxLength(n int) {
	w.maxLength = n
}

// SetCompression switches the writer to the compressed frame format,
// preferring the given algorithm. Incompressible payloads fall back to
// an uncompressed tag per frame. The reader side must enable
// compression too; the formats are not self-distinguishing.
func (w *Writer) SetCompression(c Compression) {
	w.compression = c
	w.compressed = true
}

// SetContext attaches a context value to the encoder for every
// subsequent Write, forwarded to [cbor.Encoder.SetContext].
func (w *Writer) SetContext(ctx any) {
	w.ctx = ctx
}

// Write encodes v and writes it as one frame, returning the payload
// size in bytes (excluding the prefix). Sink errors are returned
// as-is, wrapped with the operation; the codec adds no retry.
func (w *Writer) Write(v cbor.Encodable) (int, error) {
	if w.compressed {
		return w.writeCompressed(v)
	}

	// Encode after a 4-byte hole, then back-fill the prefix: no second
	// buffer pass and a single sink write.
	var hole [prefixLength]byte
	w.scratch.Reset()
	w.scratch.Write(hole[:])
	encoder := cbor.NewEncoder(&w.scratch)
	encoder.SetContext(w.ctx)
	if err := encoder.Encode(v); err != nil {
		return 0, err
	}
	payloadLength := w.scratch.Len() - prefixLength
	if payloadLength > w.maxLength {
		return 0, fmt.Errorf("frame: payload is %d bytes, maximum %d: %w", payloadLength, w.maxLength, ErrFrameTooLarge)
	}
	if err := checkPrefixRange(payloadLength); err != nil {
		return 0, fmt.Errorf("frame: %w", err)
	}
	data := w.scratch.Bytes()
	binary.BigEndian.PutUint32(data[:prefixLength], uint32(payloadLength))
	if _, err := w.w.Write(data); err != nil {
		return 0, fmt.Errorf("frame: write frame: %w", err)
	}
	return payloadLength, nil
}

// writeCompressed writes a frame in the compressed format: the payload
// region is [1 byte tag][4 bytes raw length][compressed bytes].
func (w *Writer) writeCompressed(v cbor.Encodable) (int, error) {
	w.scratch.Reset()
	encoder := cbor.NewEncoder(&w.scratch)
	encoder.SetContext(w.ctx)
	if err := encoder.Encode(v); err != nil {
		return 0, err
	}
	raw := w.scratch.Bytes()
	if len(raw) > w.maxLength {
		return 0, fmt.Errorf("frame: payload is %d bytes, maximum %d: %w", len(raw), w.maxLength, ErrFrameTooLarge)
	}

	tag, body, err := compressPayload(raw, w.compression)
	if err != nil {
		return 0, fmt.Errorf("frame: compress payload: %w", err)
	}
	// The cap applies to the on-wire payload region, which includes
	// the 5-byte compression header. Checking the raw size alone would
	// let through frames a same-cap reader rejects, in particular on
	// incompressible fallback.
	wireLength := compressedHeaderLength + len(body)
	if wireLength > w.maxLength {
		return 0, fmt.Errorf("frame: compressed frame region is %d bytes, maximum %d: %w", wireLength, w.maxLength, ErrFrameTooLarge)
	}
	if err := checkPrefixRange(wireLength); err != nil {
		return 0, fmt.Errorf("frame: %w", err)
	}

	w.frame.Reset()
	var header [prefixLength + compressedHeaderLength]byte
	binary.BigEndian.PutUint32(header[:prefixLength], uint32(wireLength))
	header[prefixLength] = byte(tag)
	binary.BigEndian.PutUint32(header[prefixLength+1:], uint32(len(raw)))
	w.frame.Write(header[:])
	w.frame.Write(body)
	if _, err := w.w.Write(w.frame.Bytes()); err != nil {
		return 0, fmt.Errorf("frame: write frame: %w", err)
	}
	return wireLength, nil
}

// checkPrefixRange reports a payload whose size cannot be represented
// in the 4-byte length prefix. Writing such a frame would silently
// truncate the prefix and corrupt the stream.
func checkPrefixRange(payloadLength int) error {
	if uint64(payloadLength) > math.MaxUint32 {
		return fmt.Errorf("payload is %d bytes, exceeds the 4-byte length prefix: %w", payloadLength, ErrFrameTooLarge)
	}
	return nil
}

// Flush flushes the underlying writer when it supports flushing
// (bufio.Writer and friends), and is a no-op otherwise.
func (w *Writer) Flush() error {
	if f, ok := w.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("frame: flush: %w", err)
		}
	}
	return nil
}

// AppendFrame encodes v as one plain-format frame and appends the
// framed bytes (prefix and payload) to dst, returning the extended
// slice. This is the write-side primitive for suspending transports:
// the caller owns the bytes and can transmit them piecemeal, resuming
// wherever the transport blocked.
func AppendFrame(dst []byte, v cbor.Encodable) ([]byte, error) {
	var payload bytes.Buffer
	if err := cbor.NewEncoder(&payload).Encode(v); err != nil {
		return nil, err
	}
	if err := checkPrefixRange(payload.Len()); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	var prefix [prefixLength]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(payload.Len()))
	dst = append(dst, prefix[:]...)
	return append(dst, payload.Bytes()...), nil
}
