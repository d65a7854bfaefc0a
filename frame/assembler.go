// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Assembler is the suspending counterpart of [Reader] for transports
// that deliver bytes in arbitrary chunks (event loops, datachannel
// callbacks, polled sockets). Input is pushed in as it arrives;
// complete frame payloads come out as soon as they are assembled.
// Partial-frame state (a half-read prefix or payload) is retained
// across calls, so no bytes are ever re-read or lost between
// suspension points.
//
//	for {
//		payload, err := a.Next()
//		if err == io.EOF { break }        // clean end of stream
//		if err != nil { ... }             // truncated or oversized
//		if payload == nil {               // suspend: need more input
//			a.Push(<await more bytes>)
//			continue
//		}
//		handle(payload)
//	}
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	buf        []byte
	off        int
	maxLength  int
	compressed bool
	closed     bool
}

// NewAssembler returns an assembler with the default maximum payload
// length.
func NewAssembler() *Assembler {
	return &Assembler{maxLength: DefaultMaxLength}
}

// SetMaxLength caps the payload size of accepted frames.
func (a *Assembler) SetMaxLength(n int) {
	a.maxLength = n
}

// SetCompression switches the assembler to the compressed frame
// format, mirroring [Reader.SetCompression].
func (a *Assembler) SetCompression(Compression) {
	a.compressed = true
}

// Push appends a chunk of stream bytes. Push after [Assembler.Close]
// panics: the caller declared the stream over.
//
// Pushing compacts internal storage, which invalidates the payload
// slice returned by the previous Next.
func (a *Assembler) Push(p []byte) {
	if a.closed {
		panic("frame: Push after Close")
	}
	if a.off > 0 {
		n := copy(a.buf, a.buf[a.off:])
		a.buf = a.buf[:n]
		a.off = 0
	}
	a.buf = append(a.buf, p...)
}

// Close marks the end of the input stream. Whether that end is clean
// or a mid-frame truncation is reported by the following Next calls;
// buffered complete frames are still returned first.
func (a *Assembler) Close() {
	a.closed = true
}

// Next returns the next complete frame payload. A nil payload with a
// nil error means more input is needed (the suspension point): the
// caller pushes more bytes and calls Next again. After Close, Next
// returns io.EOF at a clean frame boundary and an
// io.ErrUnexpectedEOF-wrapping error when the stream ended inside a
// frame.
//
// The returned slice is only valid until the next call to Push.
func (a *Assembler) Next() ([]byte, error) {
	buffered := len(a.buf) - a.off
	if buffered < prefixLength {
		return nil, a.suspend(buffered)
	}
	length := int(binary.BigEndian.Uint32(a.buf[a.off : a.off+prefixLength]))
	if length > a.maxLength {
		return nil, fmt.Errorf("frame: declared payload length %d exceeds maximum %d: %w",
			length, a.maxLength, ErrFrameTooLarge)
	}
	if buffered < prefixLength+length {
		return nil, a.suspend(buffered)
	}
	payload := a.buf[a.off+prefixLength : a.off+prefixLength+length]
	a.off += prefixLength + length

	if !a.compressed {
		return payload, nil
	}
	tag, rawLength, body, err := unpackCompressed(payload, a.maxLength)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	decompressed, err := decompressPayload(tag, rawLength, body)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return decompressed, nil
}

// suspend reports the state of an incomplete frame: nil (keep
// feeding) while the stream is open, the precise end-of-stream
// classification once it is closed.
func (a *Assembler) suspend(buffered int) error {
	if !a.closed {
		return nil
	}
	if buffered == 0 {
		return io.EOF
	}
	return fmt.Errorf("frame: stream ended inside frame (%d bytes buffered): %w",
		buffered, io.ErrUnexpectedEOF)
}
