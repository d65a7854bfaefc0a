// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to a frame payload.
// The tag is stored on the wire (1 byte); these values are protocol
// constants.
type Compression uint8

const (
	// CompressionNone transmits the payload uncompressed. Also used
	// as the per-frame fallback when a payload turns out to be
	// incompressible.
	CompressionNone Compression = 0

	// CompressionLZ4 uses LZ4 block compression: fast with moderate
	// ratios, the right default for mixed binary payloads.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at its default level: better ratios
	// for text-like payloads at a higher CPU cost.
	CompressionZstd Compression = 2
)

// String returns the human-readable name of the compression tag.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// compressedHeaderLength is the per-frame overhead of the compressed
// format: 1 byte tag + 4 bytes big-endian uncompressed length.
const compressedHeaderLength = 5

// zstdEncoder and zstdDecoder are shared across frames; both are safe
// for concurrent use and constructing them per frame would dominate
// the cost of small payloads.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("frame: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("frame: zstd decoder initialization failed: " + err.Error())
	}
}

// errIncompressible reports that compression did not shrink the
// payload; the frame falls back to CompressionNone.
var errIncompressible = errors.New("payload is incompressible")

// compressPayload compresses data with the preferred algorithm,
// falling back to CompressionNone when the output would not be
// smaller. The returned tag is what must go on the wire.
func compressPayload(data []byte, preferred Compression) (Compression, []byte, error) {
	switch preferred {
	case CompressionNone:
		return CompressionNone, data, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(data, destination, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if written == 0 || written >= len(data) {
			return CompressionNone, data, nil
		}
		return CompressionLZ4, destination[:written], nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(data, nil)
		if len(compressed) >= len(data) {
			return CompressionNone, data, nil
		}
		return CompressionZstd, compressed, nil

	default:
		return 0, nil, fmt.Errorf("unsupported compression tag: %d", preferred)
	}
}

// decompressPayload reverses compressPayload. rawLength is the
// uncompressed size declared in the frame header and is verified
// against the actual output.
func decompressPayload(tag Compression, rawLength int, body []byte) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(body) != rawLength {
			return nil, fmt.Errorf("uncompressed payload is %d bytes, header declares %d", len(body), rawLength)
		}
		return body, nil

	case CompressionLZ4:
		destination := make([]byte, rawLength)
		read, err := lz4.UncompressBlock(body, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != rawLength {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawLength)
		}
		return destination, nil

	case CompressionZstd:
		destination := make([]byte, 0, rawLength)
		result, err := zstdDecoder.DecodeAll(body, destination)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != rawLength {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), rawLength)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// unpackCompressed splits a compressed-format payload region into its
// tag, declared raw length and body. maxLength bounds the declared
// raw length so a hostile peer cannot trigger a decompression bomb.
func unpackCompressed(payload []byte, maxLength int) (Compression, int, []byte, error) {
	if len(payload) < compressedHeaderLength {
		return 0, 0, nil, fmt.Errorf("compressed payload region is %d bytes, need at least %d", len(payload), compressedHeaderLength)
	}
	tag := Compression(payload[0])
	rawLength := int(binary.BigEndian.Uint32(payload[1:5]))
	if rawLength > maxLength {
		return 0, 0, nil, fmt.Errorf("declared uncompressed length %d exceeds maximum %d: %w", rawLength, maxLength, ErrFrameTooLarge)
	}
	return tag, rawLength, payload[compressedHeaderLength:], nil
}
