// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"fmt"
	"net/netip"
)

// Addr wraps netip.Addr with the compact wire encoding: a definite
// byte string holding the 4- or 16-byte address. The address family is
// recovered from the byte length on decode.
type Addr netip.Addr

// EncodeCBOR writes the address as a byte string.
func (a Addr) EncodeCBOR(e *Encoder) error {
	addr := netip.Addr(a)
	if !addr.IsValid() {
		return fmt.Errorf("cbor: cannot encode invalid address")
	}
	return e.Bytes(addr.AsSlice())
}

// DecodeCBOR reads a byte string of length 4 or 16.
func (a *Addr) DecodeCBOR(d *Decoder) error {
	start := d.pos
	s, err := d.Bytes()
	if err != nil {
		return err
	}
	addr, ok := netip.AddrFromSlice(s)
	if !ok {
		return NewDecodeError(fmt.Sprintf("address must be 4 or 16 bytes, got %d", len(s))).At(start)
	}
	*a = Addr(addr)
	return nil
}

// AddrPort wraps netip.AddrPort with the compact wire encoding: a
// 2-element array of the address byte string and the port.
type AddrPort netip.AddrPort

// EncodeCBOR writes the address/port pair as a 2-element array.
func (a AddrPort) EncodeCBOR(e *Encoder) error {
	ap := netip.AddrPort(a)
	if err := e.Array(2); err != nil {
		return err
	}
	if err := Addr(ap.Addr()).EncodeCBOR(e); err != nil {
		return err
	}
	return e.Uint16(ap.Port())
}

// DecodeCBOR reads a 2-element array of address and port.
func (a *AddrPort) DecodeCBOR(d *Decoder) error {
	start := d.pos
	length, indef, err := d.Array()
	if err != nil {
		return err
	}
	if indef || length != 2 {
		return NewDecodeError("address/port must be a 2-element array").At(start)
	}
	var addr Addr
	if err := addr.DecodeCBOR(d); err != nil {
		return err
	}
	port, err := d.Uint16()
	if err != nil {
		return err
	}
	*a = AddrPort(netip.AddrPortFrom(netip.Addr(addr), port))
	return nil
}

// LegacyAddr wraps netip.Addr with the older array-based wire
// encoding kept for backward compatibility: a 2-element array of a
// family variant (0 for IPv4, 1 for IPv6) and an array of the
// individual octets. New protocols should use [Addr]; this form
// exists so existing peers keep interoperating.
type LegacyAddr netip.Addr

// EncodeCBOR writes the address in the legacy array-based form.
func (a LegacyAddr) EncodeCBOR(e *Encoder) error {
	addr := netip.Addr(a)
	if !addr.IsValid() {
		return fmt.Errorf("cbor: cannot encode invalid address")
	}
	if err := e.Array(2); err != nil {
		return err
	}
	variant := uint32(0)
	if addr.Is6() && !addr.Is4In6() {
		variant = 1
	}
	if err := e.Uint32(variant); err != nil {
		return err
	}
	octets := addr.AsSlice()
	if err := e.Array(uint64(len(octets))); err != nil {
		return err
	}
	for _, octet := range octets {
		if err := e.Uint8(octet); err != nil {
			return err
		}
	}
	return nil
}

// DecodeCBOR reads the legacy array-based form.
func (a *LegacyAddr) DecodeCBOR(d *Decoder) error {
	start := d.pos
	length, indef, err := d.Array()
	if err != nil {
		return err
	}
	if indef || length != 2 {
		return NewDecodeError("legacy address must be a 2-element array").At(start)
	}
	variantPos := d.pos
	variant, err := d.Uint32()
	if err != nil {
		return err
	}
	var want int
	switch variant {
	case 0:
		want = 4
	case 1:
		want = 16
	default:
		return NewDecodeError(fmt.Sprintf("unknown address family variant %d", variant)).At(variantPos)
	}
	octetsPos := d.pos
	count, indef, err := d.Array()
	if err != nil {
		return err
	}
	if indef || int(count) != want {
		return NewDecodeError(fmt.Sprintf("address octet array must have %d elements", want)).At(octetsPos)
	}
	octets := make([]byte, want)
	for i := range octets {
		octets[i], err = d.Uint8()
		if err != nil {
			return err
		}
	}
	addr, _ := netip.AddrFromSlice(octets)
	*a = LegacyAddr(addr)
	return nil
}

// LegacyAddrPort wraps netip.AddrPort with the older wire encoding: a
// 2-element array of family variant and an inner [address, port]
// array, with the address itself in legacy octet-array form.
type LegacyAddrPort netip.AddrPort

// EncodeCBOR writes the address/port pair in the legacy form.
func (a LegacyAddrPort) EncodeCBOR(e *Encoder) error {
	ap := netip.AddrPort(a)
	addr := ap.Addr()
	if !addr.IsValid() {
		return fmt.Errorf("cbor: cannot encode invalid address")
	}
	if err := e.Array(2); err != nil {
		return err
	}
	variant := uint32(0)
	if addr.Is6() && !addr.Is4In6() {
		variant = 1
	}
	if err := e.Uint32(variant); err != nil {
		return err
	}
	if err := e.Array(2); err != nil {
		return err
	}
	if err := LegacyAddr(addr).EncodeCBOR(e); err != nil {
		return err
	}
	return e.Uint16(ap.Port())
}

// DecodeCBOR reads the legacy address/port form.
func (a *LegacyAddrPort) DecodeCBOR(d *Decoder) error {
	start := d.pos
	length, indef, err := d.Array()
	if err != nil {
		return err
	}
	if indef || length != 2 {
		return NewDecodeError("legacy address/port must be a 2-element array").At(start)
	}
	if _, err := d.Uint32(); err != nil {
		return err
	}
	innerPos := d.pos
	length, indef, err = d.Array()
	if err != nil {
		return err
	}
	if indef || length != 2 {
		return NewDecodeError("legacy address/port body must be a 2-element array").At(innerPos)
	}
	var addr LegacyAddr
	if err := addr.DecodeCBOR(d); err != nil {
		return err
	}
	port, err := d.Uint16()
	if err != nil {
		return err
	}
	*a = LegacyAddrPort(netip.AddrPortFrom(netip.Addr(addr), port))
	return nil
}
