// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame turns a byte stream into a sequence of length-prefixed
// CBOR messages, each independently decodable.
//
// # Wire format
//
// A frame is a 4-byte big-endian uint32 payload length followed by the
// payload, which is exactly one encoded CBOR value:
//
//	[4 bytes length, big-endian] [payload]
//
// Both ends must agree on this prefix convention; it is part of the
// wire contract. Frames on one stream are strictly ordered and never
// interleaved.
//
// # End-of-stream semantics
//
// A stream that ends exactly between frames (no prefix byte read) is a
// clean shutdown: [Reader.Read] returns io.EOF and callers can loop
// "read until EOF" without misreporting closure as failure. A stream
// that ends after any prefix byte, or inside a payload, died mid-frame:
// the error wraps io.ErrUnexpectedEOF. The two cases are never
// conflated.
//
// # Transport modes
//
// [Writer] and [Reader] are the blocking mode: calls run until the
// frame is fully transferred or fail. [Assembler] is the suspending
// mode for event-driven transports: bytes are pushed in as they arrive
// in arbitrary chunks, partial-frame state is retained between calls,
// and complete payloads come out as soon as they are assembled.
// [AppendFrame] is the write-side counterpart, producing fully framed
// bytes the caller can transmit piecemeal.
//
// Dropping a Writer, Reader or Assembler mid-frame abandons the
// partial frame; the package does not resynchronize a stream whose
// framing was broken by a partial transfer.
//
// # Compression
//
// Optionally the payload region can be compressed (lz4 or zstd). Both
// ends must opt in; see [Writer.SetCompression]. This is an extension
// of the base format, not part of it.
//
// The configured maximum length bounds the on-wire payload region on
// both paths. In compressed mode that region includes a 5-byte
// compression header, so the largest encodable value is five bytes
// smaller than the cap; a writer never emits a frame a reader with the
// same cap would reject.
package frame
