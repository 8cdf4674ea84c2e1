// Package lsu implements the three pure load/store helpers: alignment
// checking, byte-enable mask computation, and lane-selected sign/zero
// extension, per spec.md §4.4. Ported from
// original_source/inc/lsu.hpp's transform_data/get_be.
package lsu

import "github.com/bassosimone/riscv32sim/pkg/bits"

// Op identifies a load/store width and (for loads) its extension mode.
type Op uint

const (
	B  Op = iota // byte, sign-extended
	BU           // byte, zero-extended
	H            // halfword, sign-extended
	HU           // halfword, zero-extended
	W            // word
)

// Misaligned reports whether addr is misaligned for op: always false
// for byte ops, odd addresses are misaligned for half ops, and any
// non-multiple-of-4 address is misaligned for word ops.
func Misaligned(op Op, addr uint32) bool {
	switch op {
	case B, BU:
		return false
	case H, HU:
		return addr&1 != 0
	case W:
		return addr&3 != 0
	default:
		return false
	}
}

// ByteEnable returns the 4-bit lane mask for an aligned access of
// width op at addr.
func ByteEnable(op Op, addr uint32) uint8 {
	switch op {
	case B, BU:
		return 1 << (addr & 0b11)
	case H, HU:
		if addr&0b10 != 0 {
			return 0b1100
		}
		return 0b0011
	case W:
		return 0xf
	default:
		return 0
	}
}

// Transform isolates the lane(s) of word selected by ByteEnable(op,
// addr) and sign-extends (B, H) or zero-extends (BU, HU) to 32 bits.
// Word loads are returned unchanged.
func Transform(op Op, addr uint32, word uint32) uint32 {
	switch op {
	case W:
		return word
	case B, BU:
		sext := op == B
		switch addr & 0b11 {
		case 0:
			return bits.Extract(word, bits.Range{MSB: 7, LSB: 0}, sext)
		case 1:
			return bits.Extract(word, bits.Range{MSB: 15, LSB: 8}, sext)
		case 2:
			return bits.Extract(word, bits.Range{MSB: 23, LSB: 16}, sext)
		default:
			return bits.Extract(word, bits.Range{MSB: 31, LSB: 24}, sext)
		}
	case H, HU:
		sext := op == H
		if addr&0b10 != 0 {
			return bits.Extract(word, bits.Range{MSB: 31, LSB: 16}, sext)
		}
		return bits.Extract(word, bits.Range{MSB: 15, LSB: 0}, sext)
	default:
		return 0
	}
}
