// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"math"
	"testing"
)

func TestIntFromInt64RoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{0, 1, -1, 23, -24, math.MaxInt64, math.MinInt64} {
		got, err := IntFromInt64(v).Int64()
		if err != nil {
			t.Errorf("Int64(%d): %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("Int64(%d): got %d", v, got)
		}
	}
}

func TestIntFromUint64RoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []uint64{0, 1, math.MaxInt64, math.MaxUint64} {
		got, err := IntFromUint64(v).Uint64()
		if err != nil {
			t.Errorf("Uint64(%d): %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("Uint64(%d): got %d", v, got)
		}
	}
}

func TestIntConversionOverflow(t *testing.T) {
	t.Parallel()
	// 2^64-1 exceeds int64.
	if _, err := IntFromUint64(math.MaxUint64).Int64(); !IsOverflow(err) {
		t.Errorf("Int64(2^64-1): got %v, want overflow", err)
	}
	// Negative values have no uint64 representation.
	if _, err := IntFromInt64(-1).Uint64(); !IsOverflow(err) {
		t.Errorf("Uint64(-1): got %v, want overflow", err)
	}
}

func TestIntCanonicalZero(t *testing.T) {
	t.Parallel()
	// The zero value, IntFromInt64(0) and IntFromUint64(0) are the
	// same value under ==.
	var zero Int
	if IntFromInt64(0) != zero || IntFromUint64(0) != zero {
		t.Error("zero is not canonical")
	}
}

func TestIntIsNegative(t *testing.T) {
	t.Parallel()
	if IntFromInt64(-1).IsNegative() != true {
		t.Error("-1 not negative")
	}
	if IntFromInt64(0).IsNegative() || IntFromUint64(1).IsNegative() {
		t.Error("non-negative value reports negative")
	}
}

func TestIntCmp(t *testing.T) {
	t.Parallel()
	// Values in strictly increasing order, spanning the full domain.
	minInt, err := NewDecoder(hexBytes(t, "3bffffffffffffffff")).Int() // -2^64
	if err != nil {
		t.Fatal(err)
	}
	ordered := []Int{
		minInt,
		IntFromInt64(math.MinInt64),
		IntFromInt64(-2),
		IntFromInt64(-1),
		IntFromInt64(0),
		IntFromInt64(1),
		IntFromInt64(math.MaxInt64),
		IntFromUint64(math.MaxUint64),
	}
	for i, a := range ordered {
		for j, b := range ordered {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := a.Cmp(b); got != want {
				t.Errorf("Cmp(%s, %s): got %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestIntString(t *testing.T) {
	t.Parallel()
	vectors := []struct {
		v    Int
		want string
	}{
		{IntFromInt64(0), "0"},
		{IntFromInt64(-1), "-1"},
		{IntFromInt64(42), "42"},
		{IntFromInt64(math.MinInt64), "-9223372036854775808"},
		{IntFromUint64(math.MaxUint64), "18446744073709551615"},
	}
	for _, vector := range vectors {
		if got := vector.v.String(); got != vector.want {
			t.Errorf("String: got %s, want %s", got, vector.want)
		}
	}
}

func TestIntStringMostNegative(t *testing.T) {
	t.Parallel()
	v, err := NewDecoder(hexBytes(t, "3bffffffffffffffff")).Int()
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "-18446744073709551616" {
		t.Errorf("String(-2^64): got %s", got)
	}
}
