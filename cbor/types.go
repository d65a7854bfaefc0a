// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import "fmt"

// Major type bits (the high 3 bits of an item's initial byte). These
// values are wire constants from RFC 8949 §3.
const (
	majorUnsigned byte = 0x00 // major 0: unsigned integer
	majorNegative byte = 0x20 // major 1: negative integer (-1 - n)
	majorBytes    byte = 0x40 // major 2: byte string
	majorText     byte = 0x60 // major 3: UTF-8 text string
	majorArray    byte = 0x80 // major 4: array
	majorMap      byte = 0xa0 // major 5: map
	majorTag      byte = 0xc0 // major 6: semantic tag
	majorSimple   byte = 0xe0 // major 7: simple values and floats

	// breakByte terminates indefinite-length containers.
	breakByte byte = 0xff

	// indefinite is the additional-information value marking an
	// indefinite-length container header.
	indefinite byte = 0x1f
)

// majorOf extracts the major type bits of an initial byte.
func majorOf(b byte) byte { return b & 0xe0 }

// infoOf extracts the additional-information bits (low 5) of an
// initial byte.
func infoOf(b byte) byte { return b & 0x1f }

// Type classifies the item at a decoder position. The classification
// distinguishes definite from indefinite containers (TypeArray vs
// TypeArrayIndef and so on) because they require different handling:
// definite containers carry their length, indefinite ones end with a
// break marker.
type Type uint8

const (
	TypeBool Type = iota
	TypeNull
	TypeUndefined
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	// TypeInt marks a negative integer whose magnitude exceeds the
	// int64 range and is only representable as [Int].
	TypeInt
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeSimple
	TypeBytes
	TypeBytesIndef
	TypeString
	TypeStringIndef
	TypeArray
	TypeArrayIndef
	TypeMap
	TypeMapIndef
	TypeTag
	TypeBreak
	TypeUnknown
)

// String returns the type name as used in error messages.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	case TypeUndefined:
		return "undefined"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeInt:
		return "int"
	case TypeFloat16:
		return "float16"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeSimple:
		return "simple"
	case TypeBytes:
		return "bytes"
	case TypeBytesIndef:
		return "bytes (indefinite)"
	case TypeString:
		return "string"
	case TypeStringIndef:
		return "string (indefinite)"
	case TypeArray:
		return "array"
	case TypeArrayIndef:
		return "array (indefinite)"
	case TypeMap:
		return "map"
	case TypeMapIndef:
		return "map (indefinite)"
	case TypeTag:
		return "tag"
	case TypeBreak:
		return "break"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// classify maps an initial byte to its Type. Negative integers must be
// classified for every width, including the one-byte extension form
// 0x38: the ranges here are inclusive of the extension bytes so that a
// type peek never misreports a negative integer as unknown.
func classify(b byte) Type {
	switch {
	case b <= 0x18:
		return TypeUint8
	case b == 0x19:
		return TypeUint16
	case b == 0x1a:
		return TypeUint32
	case b == 0x1b:
		return TypeUint64
	case b >= 0x20 && b <= 0x38:
		return TypeInt8
	case b == 0x39:
		return TypeInt16
	case b == 0x3a:
		return TypeInt32
	case b == 0x3b:
		return TypeInt64
	case b >= 0x40 && b <= 0x5b:
		return TypeBytes
	case b == 0x5f:
		return TypeBytesIndef
	case b >= 0x60 && b <= 0x7b:
		return TypeString
	case b == 0x7f:
		return TypeStringIndef
	case b >= 0x80 && b <= 0x9b:
		return TypeArray
	case b == 0x9f:
		return TypeArrayIndef
	case b >= 0xa0 && b <= 0xbb:
		return TypeMap
	case b == 0xbf:
		return TypeMapIndef
	case b >= 0xc0 && b <= 0xdb:
		return TypeTag
	case b >= 0xe0 && b <= 0xf3 || b == 0xf8:
		return TypeSimple
	case b == 0xf4 || b == 0xf5:
		return TypeBool
	case b == 0xf6:
		return TypeNull
	case b == 0xf7:
		return TypeUndefined
	case b == 0xf9:
		return TypeFloat16
	case b == 0xfa:
		return TypeFloat32
	case b == 0xfb:
		return TypeFloat64
	case b == breakByte:
		return TypeBreak
	default:
		return TypeUnknown
	}
}

// Tag is a CBOR semantic tag number (major type 6).
type Tag uint64

// Tag numbers registered in RFC 8949 §3.4 that callers commonly need.
const (
	TagDateTime    Tag = 0
	TagTimestamp   Tag = 1
	TagPosBignum   Tag = 2
	TagNegBignum   Tag = 3
	TagDecimal     Tag = 4
	TagBigfloat    Tag = 5
	TagToBase64URL Tag = 21
	TagToBase64    Tag = 22
	TagToBase16    Tag = 23
	TagCBOR        Tag = 24
	TagURI         Tag = 32
	TagBase64URL   Tag = 33
	TagBase64      Tag = 34
	TagRegex       Tag = 35
	TagMIME        Tag = 36
)
