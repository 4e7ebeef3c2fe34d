// Package trail searches for optimal differential trails through a chain of
// ARX (add-rotate-xor) rounds of the shape used by SPARKLE's Alzette box: at
// each round a 32-bit modular addition mixes two branches, which are then
// linked to the next round by fixed rotations. It implements a branch-and-
// bound search over the addition's possible output differences, pruned by
// Lipmaa-Moriai's closed-form differential probability of modular addition.
package trail

import "math/bits"

// LogZero is the sentinel log2-probability used for an impossible
// differential transition (log2(0) standing in for a hard -infinity).
// Grounded on diffsearch/defs.h's LOG0.
const LogZero = -10000

// Differential records one round's input/output XOR differences and the
// log2 probability of that addition transition. CP is the cumulative log2
// probability of the trail up to and including this round. Grounded on
// diffsearch/trail.h's Differential struct.
type Differential struct {
	DX, DY, DZ uint32
	P          int
	CP         int
}

// eq reports, bit by bit, whether x, y and z all agree: grounded on
// xdp_add.h's eq().
func eq(x, y, z uint32) uint32 {
	return ^((x ^ y) | (x ^ z))
}

// XDPAddLM returns the base-2 logarithm of the differential probability
// that modular addition maps input differences (da, db) to output
// difference dc, using the closed-form test of Lipmaa and Moriai. It
// returns LogZero when the transition is impossible. Grounded on
// analysis/diffsearch/xdp_add.h's xdp_add_lm (the no-word-size overload,
// i.e. the full 32-bit word case).
func XDPAddLM(da, db, dc uint32) int {
	eqd := eq(da, db, dc)
	eqdSl1 := (eqd << 1) | 1
	if eqdSl1&(da^db^dc^(da<<1)) != 0 {
		return LogZero
	}
	neqNoMSB := ^eqd &^ (uint32(1) << 31)
	return -bits.OnesCount32(neqNoMSB)
}

// XDPAddLMPartial is the bounded-word-size overload of XDPAddLM, used while
// only the low wordSize bits of a transition have been fixed during the
// branch-and-bound search: it gives the exact probability contributed by
// those bits alone, which can only decrease as more bits are fixed, making
// it a valid upper bound for pruning. Grounded on
// xdp_add.h's (da, db, dc, word_size) overload, including its wordSize == 1
// corner case.
func XDPAddLMPartial(da, db, dc uint32, wordSize uint) int {
	if wordSize == 0 {
		panic("trail: wordSize must be > 0")
	}
	if wordSize == 1 {
		if (da^db^dc)&1 == 0 {
			return 0
		}
		return LogZero
	}
	mask := genMask(wordSize)
	eqd := eq(da, db, dc) & mask
	eqdSl1 := ((eqd << 1) | 1) & mask
	if eqdSl1&(da^db^dc^(da<<1)) != 0 {
		return LogZero
	}
	neq := ^eqd & (mask >> 1)
	return -bits.OnesCount32(neq)
}

func genMask(wordSize uint) uint32 {
	if wordSize >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << wordSize) - 1
}
