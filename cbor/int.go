// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"math"
	"strconv"
)

// Int represents the full CBOR integer domain [-2^64, 2^64-1], which
// is wider than any single machine integer. Sign and magnitude are
// held separately: a negative Int with magnitude m has the value
// -1-m, mirroring the wire representation of major type 1.
//
// The zero value is the integer 0. The representation is canonical
// (non-negative values never set the negative flag), so == on Int
// matches mathematical equality.
type Int struct {
	negative  bool
	magnitude uint64
}

// IntFromInt64 returns the Int for v.
func IntFromInt64(v int64) Int {
	if v >= 0 {
		return Int{magnitude: uint64(v)}
	}
	// ^v is -1-v, the wire magnitude of a negative value.
	return Int{negative: true, magnitude: uint64(^v)}
}

// IntFromUint64 returns the Int for v.
func IntFromUint64(v uint64) Int {
	return Int{magnitude: v}
}

// IsNegative reports whether the value is below zero.
func (i Int) IsNegative() bool {
	return i.negative
}

// Int64 returns the value as an int64, or an overflow error when it is
// outside [math.MinInt64, math.MaxInt64].
func (i Int) Int64() (int64, error) {
	if i.negative {
		if i.magnitude > math.MaxInt64 {
			return 0, newOverflow(0, i.magnitude, "int64 (negative)")
		}
		return -1 - int64(i.magnitude), nil
	}
	if i.magnitude > math.MaxInt64 {
		return 0, newOverflow(0, i.magnitude, "int64")
	}
	return int64(i.magnitude), nil
}

// Uint64 returns the value as a uint64, or an overflow error when it
// is negative.
func (i Int) Uint64() (uint64, error) {
	if i.negative {
		return 0, newOverflow(0, i.magnitude, "uint64 (negative)")
	}
	return i.magnitude, nil
}

// Cmp compares i and other as mathematical integers, returning -1, 0
// or 1. For negative values a larger magnitude means a smaller value
// (-1-m decreases as m grows).
func (i Int) Cmp(other Int) int {
	switch {
	case i.negative && !other.negative:
		return -1
	case !i.negative && other.negative:
		return 1
	case !i.negative:
		return compareUint64(i.magnitude, other.magnitude)
	default:
		return compareUint64(other.magnitude, i.magnitude)
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String formats the value in decimal. The most negative value,
// -2^64, cannot be computed as -(m+1) in uint64 arithmetic and is
// special-cased.
func (i Int) String() string {
	if !i.negative {
		return strconv.FormatUint(i.magnitude, 10)
	}
	if i.magnitude == math.MaxUint64 {
		return "-18446744073709551616"
	}
	return "-" + strconv.FormatUint(i.magnitude+1, 10)
}
