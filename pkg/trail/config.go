package trail

import "math/bits"

// NRoundsMax bounds the length of a trail, matching the fixed-size arrays
// diffsearch/defs.h declares (gconst_r/gconst_s/g_best_B, each [100]).
const NRoundsMax = 100

// WordSize is the bit width of the branches this search operates over; the
// search is specific to SPARKLE's 32-bit ARX box.
const WordSize = 32

// Config describes one trail-search problem: how many ARX rounds to chain,
// the per-round rotation constants linking them (cycling with period 4, as
// SPARKLE's Alzette box does), and the known best probability of each
// shorter trail length, used to seed the branch-and-bound prune. Grounded on
// diffsearch/defs.h's gconst_r/gconst_s/g_best_B globals and main_serial.cpp,
// which populates them from rounds/r0-r3/s0-s3/bound arguments.
type Config struct {
	NRounds int
	R, S    [4]uint32
	// BestB[k] is the best achievable cumulative log2 probability of any
	// (k+1)-round trail. Round i's prune uses BestB[NRounds-2-i] to bound
	// the NRounds-1-i rounds that follow it. len(BestB) must be NRounds-1.
	BestB []int
	// Stats enables the round/bit node-count instrumentation described in
	// diffsearch/defs.h's STATS macro, gathered at runtime instead of
	// behind a compile-time flag.
	Stats bool
}

// RoundConst returns the rotation amounts used to link round i to round
// i+1, cycling through Config.R/S with period 4 (SPARKLE's Alzette box has
// four distinct rotation pairs per 64-bit branch).
func (c Config) RoundConst(i int) (r, s uint32) {
	return c.R[i%4], c.S[i%4]
}

// nextRound derives round i+1's addition operands (alpha', beta') from
// round i's operands and output difference: alpha' = gamma, beta' =
// rotl(alpha, r) xor rotr(gamma, s). This is the SPARKLE-family round's
// linear mixing step applied to the difference.
func nextRound(alpha, gamma uint32, r, s uint32) (alphaNext, betaNext uint32) {
	return gamma, bits.RotateLeft32(alpha, int(r)) ^ bits.RotateLeft32(gamma, -int(s))
}
