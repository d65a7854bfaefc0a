// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import "math"

// skipLevel is one entry of the skip work list: either a countdown of
// items remaining in a definite container, or an indefinite container
// waiting for its break marker.
type skipLevel struct {
	remaining uint64
	indef     bool
}

// Skip advances the cursor past exactly one item, primitive or
// container, without materializing it. Nesting is handled with an
// explicit work list rather than recursion, so adversarial input can
// grow memory only in proportion to its actual nesting depth (at most
// one level per input byte) and can never exhaust the call stack.
//
// Skip fails fast on malformed headers and consumes exactly the bytes
// the item occupies. For heap-free skipping with reduced indefinite
// support, see [Decoder.SkipNoAlloc].
func (d *Decoder) Skip() error {
	stack := []skipLevel{{remaining: 1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.indef && top.remaining == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		b, err := d.peek()
		if err != nil {
			return err
		}
		if b == breakByte {
			if !top.indef {
				return newTypeMismatch(d.pos, TypeBreak, "unexpected break")
			}
			d.pos++
			stack = stack[:len(stack)-1]
			continue
		}
		if !top.indef {
			top.remaining--
		}
		next, err := d.skipHead()
		if err != nil {
			return err
		}
		if next.push {
			stack = append(stack, next.level)
		}
	}
	return nil
}

// skipFrame is the outcome of consuming one item header during a skip:
// optionally a new nesting level to descend into.
type skipFrame struct {
	push  bool
	level skipLevel
}

// skipHead consumes one item header (and, for leaf items, the item's
// payload) and reports whether a nested level must be processed.
func (d *Decoder) skipHead() (skipFrame, error) {
	start := d.pos
	head, err := d.readByte()
	if err != nil {
		return skipFrame{}, err
	}
	switch majorOf(head) {
	case majorUnsigned, majorNegative:
		_, err := d.uhead(start, infoOf(head))
		return skipFrame{}, err
	case majorBytes, majorText:
		d.pos = start
		return skipFrame{}, d.skipStringItem(majorOf(head))
	case majorArray:
		if infoOf(head) == indefinite {
			return skipFrame{push: true, level: skipLevel{indef: true}}, nil
		}
		length, err := d.uhead(start, infoOf(head))
		if err != nil {
			return skipFrame{}, err
		}
		return skipFrame{push: length > 0, level: skipLevel{remaining: length}}, nil
	case majorMap:
		if infoOf(head) == indefinite {
			return skipFrame{push: true, level: skipLevel{indef: true}}, nil
		}
		pairs, err := d.uhead(start, infoOf(head))
		if err != nil {
			return skipFrame{}, err
		}
		// A pair count that doubles past uint64 cannot fit in any
		// real input; saturate and let end-of-input report it.
		items := pairs * 2
		if pairs > math.MaxUint64/2 {
			items = math.MaxUint64
		}
		return skipFrame{push: items > 0, level: skipLevel{remaining: items}}, nil
	case majorTag:
		if _, err := d.uhead(start, infoOf(head)); err != nil {
			return skipFrame{}, err
		}
		// The tagged item follows as one more item to skip.
		return skipFrame{push: true, level: skipLevel{remaining: 1}}, nil
	default: // majorSimple
		return skipFrame{}, d.skipSimplePayload(start, head)
	}
}

// skipSimplePayload consumes the payload of a major type 7 item whose
// initial byte has already been read.
func (d *Decoder) skipSimplePayload(start int, head byte) error {
	switch {
	case head <= 0xf7:
		return nil // inline simple value, bool, null, undefined
	case head == 0xf8:
		_, err := d.readByte()
		return err
	case head == 0xf9:
		_, err := d.readSlice(2)
		return err
	case head == 0xfa:
		_, err := d.readSlice(4)
		return err
	case head == 0xfb:
		_, err := d.readSlice(8)
		return err
	default:
		return newTypeMismatch(start, classify(head), "malformed item header")
	}
}

// skipStringItem consumes one complete byte or text string item of the
// given major type, definite or indefinite, without allocating.
func (d *Decoder) skipStringItem(major byte) error {
	start := d.pos
	head, err := d.readByte()
	if err != nil {
		return err
	}
	if majorOf(head) != major {
		return newTypeMismatch(start, classify(head), "expected string item")
	}
	if infoOf(head) != indefinite {
		length, err := d.uhead(start, infoOf(head))
		if err != nil {
			return err
		}
		_, err = d.readSlice(length)
		return err
	}
	// Indefinite: definite chunks of the same major type until break.
	for {
		b, err := d.peek()
		if err != nil {
			return err
		}
		if b == breakByte {
			d.pos++
			return nil
		}
		chunkStart := d.pos
		chunkHead, err := d.readByte()
		if err != nil {
			return err
		}
		if majorOf(chunkHead) != major || infoOf(chunkHead) == indefinite {
			return newTypeMismatch(chunkStart, classify(chunkHead), "expected definite string chunk")
		}
		length, err := d.uhead(chunkStart, infoOf(chunkHead))
		if err != nil {
			return err
		}
		if _, err := d.readSlice(length); err != nil {
			return err
		}
	}
}

// SkipNoAlloc advances past one item without any heap allocation,
// tracking nesting with a pair of counters instead of a work list.
//
// Reduced contract: nested definite containers and top-level
// indefinite containers are skipped correctly, but an
// indefinite-length container nested inside another container is not
// guaranteed to be delimited correctly, because the counter pair
// cannot attribute break markers to levels. Callers on heap-free
// paths that control their wire format (no nested indefinite
// containers) get an allocation-free skip; everyone else should use
// [Decoder.Skip].
func (d *Decoder) SkipNoAlloc() error {
	nrounds := uint64(1) // definite items outstanding
	irounds := uint64(0) // unterminated indefinite containers
	for nrounds > 0 || irounds > 0 {
		b, err := d.peek()
		if err != nil {
			return err
		}
		switch {
		case b <= 0x1b:
			if _, err := d.Uint64(); err != nil {
				return err
			}
		case b >= 0x20 && b <= 0x3b:
			if _, err := d.Int(); err != nil {
				return err
			}
		case b >= 0x40 && b <= 0x5f:
			if err := d.skipStringItem(majorBytes); err != nil {
				return err
			}
		case b >= 0x60 && b <= 0x7f:
			if err := d.skipStringItem(majorText); err != nil {
				return err
			}
		case b >= 0x80 && b <= 0x9f:
			length, indef, err := d.Array()
			if err != nil {
				return err
			}
			if indef {
				irounds = saturatingAdd(irounds, 1)
			} else {
				nrounds = saturatingAdd(nrounds, length)
			}
		case b >= 0xa0 && b <= 0xbf:
			pairs, indef, err := d.Map()
			if err != nil {
				return err
			}
			if indef {
				irounds = saturatingAdd(irounds, 1)
			} else {
				items := pairs * 2
				if pairs > math.MaxUint64/2 {
					items = math.MaxUint64
				}
				nrounds = saturatingAdd(nrounds, items)
			}
		case b >= 0xc0 && b <= 0xdb:
			if _, err := d.Tag(); err != nil {
				return err
			}
			nrounds = saturatingAdd(nrounds, 1)
		case b == breakByte:
			d.pos++
			if irounds > 0 {
				irounds--
			}
		case b >= 0xe0:
			start := d.pos
			head, err := d.readByte()
			if err != nil {
				return err
			}
			if err := d.skipSimplePayload(start, head); err != nil {
				return err
			}
		default:
			return newTypeMismatch(d.pos, classify(b), "malformed item header")
		}
		if nrounds > 0 {
			nrounds--
		}
	}
	return nil
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
