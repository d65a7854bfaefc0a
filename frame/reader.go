// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/cborwire/cbor"
)

// Reader reads length-prefixed CBOR messages from an io.Reader.
//
// End-of-stream classification is exact: io.EOF with no prefix byte
// consumed means the peer closed cleanly between frames and Read
// returns io.EOF; end of stream anywhere after the first prefix byte
// means the frame was truncated and the error wraps
// io.ErrUnexpectedEOF.
//
// The payload buffer is reused across frames, so a Reader in a receive
// loop settles into zero allocations per frame. A Reader is not safe
// for concurrent use.
type Reader struct {
	r          io.Reader
	payload    []byte
	maxLength  int
	compressed bool
	ctx        any
}

// NewReader returns a frame reader with the default maximum payload
// length.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, maxLength: DefaultMaxLength}
}

// SetMaxLength caps the payload size of accepted frames. A prefix
// declaring more than n bytes fails with [ErrFrameTooLarge] without
// reading the payload.
func (r *Reader) SetMaxLength(n int) {
	r.maxLength = n
}

// SetCompression switches the reader to the compressed frame format.
// The algorithm tag is read per frame from the wire; the argument only
// needs to match what the writer side enables, and is accepted for
// symmetry with [Writer.SetCompression].
func (r *Reader) SetCompression(Compression) {
	r.compressed = true
}

// SetContext attaches a context value to the decoder for every
// subsequent Read, forwarded to [cbor.Decoder.SetContext].
func (r *Reader) SetContext(ctx any) {
	r.ctx = ctx
}

// Read reads the next frame and decodes its payload into v. It
// returns io.EOF when the stream ended cleanly between frames.
func (r *Reader) Read(v cbor.Decodable) error {
	payload, err := r.Next()
	if err != nil {
		return err
	}
	decoder := cbor.NewDecoder(payload)
	decoder.SetContext(r.ctx)
	return v.DecodeCBOR(decoder)
}

// Next reads the next frame and returns its payload. The returned
// slice is only valid until the next call to Next or Read. It returns
// io.EOF when the stream ended cleanly between frames.
func (r *Reader) Next() ([]byte, error) {
	var prefix [prefixLength]byte
	n, err := io.ReadFull(r.r, prefix[:])
	switch {
	case errors.Is(err, io.EOF):
		// io.ReadFull reports bare io.EOF only when zero bytes were
		// read, which is exactly the clean frame boundary.
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("frame: stream ended inside length prefix (%d of %d bytes): %w",
			n, prefixLength, io.ErrUnexpectedEOF)
	case err != nil:
		return nil, fmt.Errorf("frame: read length prefix: %w", err)
	}

	length := int(binary.BigEndian.Uint32(prefix[:]))
	if length > r.maxLength {
		return nil, fmt.Errorf("frame: declared payload length %d exceeds maximum %d: %w",
			length, r.maxLength, ErrFrameTooLarge)
	}
	if cap(r.payload) < length {
		r.payload = make([]byte, length)
	}
	r.payload = r.payload[:length]
	if n, err := io.ReadFull(r.r, r.payload); err != nil {
		// Any end of stream here is mid-frame: the prefix was fully
		// read, so a short payload is truncation, not clean closure.
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("frame: stream ended inside payload (%d of %d bytes): %w",
				n, length, io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("frame: read payload: %w", err)
	}

	if !r.compressed {
		return r.payload, nil
	}
	tag, rawLength, body, err := unpackCompressed(r.payload, r.maxLength)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	decompressed, err := decompressPayload(tag, rawLength, body)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return decompressed, nil
}
