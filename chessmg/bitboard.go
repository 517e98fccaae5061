package chessmg

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, one bit per square. Bit 0 is a8, bit 63 is h1.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0
	FullBB  Bitboard = ^Bitboard(0)
)

// SquareBB returns the singleton set for sq.
func SquareBB(sq Square) Bitboard { return Bitboard(1) << uint(sq) }

func (b Bitboard) Has(sq Square) bool { return b&SquareBB(sq) != 0 }

func (b *Bitboard) Set(sq Square) { *b |= SquareBB(sq) }

func (b *Bitboard) Clear(sq Square) { *b &^= SquareBB(sq) }

func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

func (b Bitboard) Empty() bool { return b == 0 }

// More reports whether the set holds at least two squares.
func (b Bitboard) More() bool { return b&(b-1) != 0 }

// LSB returns the lowest square in the set, or NoSquare if it is empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest square. The set must not be empty.
func (b *Bitboard) PopLSB() Square {
	sq := Square(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// String renders the set as an 8x8 grid, rank 8 first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			if b.Has(MakeSquare(file, row)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x, mask Bitboard) int {
	var res int
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x int, mask Bitboard) Bitboard {
	var res Bitboard
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if (x>>idx)&1 != 0 {
			res |= m & -m
		}
		idx++
	}
	return res
}
