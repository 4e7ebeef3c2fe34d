// Package sparkle implements the SPARKLE family of ARX permutations, the
// building block shared by the SCHWAEMM authenticated ciphers and the ESCH
// hash functions.
package sparkle

import (
	"errors"
	"math/bits"
)

// ErrUnsupportedInstance is returned when a state slice does not describe
// one of the three supported branch counts (SPARKLE-256/384/512).
var ErrUnsupportedInstance = errors.New("sparkle: unsupported branch count")

// RCON holds the eight round constants used both for round-constant
// injection and as the per-branch Alzette constants.
var RCON = [8]uint32{
	0xB7E15162, 0xBF715880, 0x38B4DA56, 0x324E7738,
	0xBB1185EB, 0x4F7C7B57, 0xCFBFA1C8, 0xC2B3293D,
}

// MinBranches and MaxBranches bound the supported branch counts B (4, 6, 8
// for SPARKLE-256, -384, -512 respectively); B must also be even.
const (
	MinBranches = 4
	MaxBranches = 8
)

func branches(state []uint32) (int, error) {
	if len(state) == 0 || len(state)%4 != 0 {
		return 0, ErrUnsupportedInstance
	}
	b := len(state) / 2
	if b < MinBranches || b > MaxBranches {
		return 0, ErrUnsupportedInstance
	}
	return b, nil
}

func ell(x uint32) uint32 {
	return bits.RotateLeft32(x^(x<<16), -16)
}

// Permute applies the SPARKLE permutation to state in place for the given
// number of steps. len(state) must be 8, 12, or 16 (B = 4, 6, 8).
func Permute(state []uint32, steps int) error {
	b, err := branches(state)
	if err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		// Round-constant injection.
		state[1] ^= RCON[i%8]
		state[3] ^= uint32(i)

		// ARX-box (Alzette) layer.
		for j := 0; j < 2*b; j += 2 {
			x, y := state[j], state[j+1]
			c := RCON[j>>1]

			x += bits.RotateLeft32(y, -31)
			y ^= bits.RotateLeft32(x, -24)
			x ^= c

			x += bits.RotateLeft32(y, -17)
			y ^= bits.RotateLeft32(x, -17)
			x ^= c

			x += y
			y ^= bits.RotateLeft32(x, -31)
			x ^= c

			x += bits.RotateLeft32(y, -24)
			y ^= bits.RotateLeft32(x, -16)
			x ^= c

			state[j], state[j+1] = x, y
		}

		// Linear (ℓ) layer.
		tx, ty := state[0], state[1]
		for j := 2; j < b; j += 2 {
			tx ^= state[j]
			ty ^= state[j+1]
		}
		tx = ell(tx)
		ty = ell(ty)

		x0, y0 := state[0], state[1]
		for j := 2; j < b; j += 2 {
			state[j-2] = state[j+b] ^ state[j] ^ ty
			state[j+b] = state[j]
			state[j-1] = state[j+b+1] ^ state[j+1] ^ tx
			state[j+b+1] = state[j+1]
		}
		state[b-2] = state[b] ^ x0 ^ ty
		state[b] = x0
		state[b-1] = state[b+1] ^ y0 ^ tx
		state[b+1] = y0
	}
	return nil
}

// Invert applies the exact inverse of Permute to state in place.
func Invert(state []uint32, steps int) error {
	b, err := branches(state)
	if err != nil {
		return err
	}
	for i := steps - 1; i >= 0; i-- {
		// Invert the linear layer.
		var tx, ty uint32
		xb1, yb1 := state[b-2], state[b-1]
		for j := b - 2; j > 0; j -= 2 {
			state[j] = state[j+b]
			tx ^= state[j]
			state[j+b] = state[j-2]

			state[j+1] = state[j+b+1]
			ty ^= state[j+1]
			state[j+b+1] = state[j-1]
		}
		state[0] = state[b]
		tx ^= state[0]
		state[b] = xb1

		state[1] = state[b+1]
		ty ^= state[1]
		state[b+1] = yb1

		tx = ell(tx)
		ty = ell(ty)
		for j := b - 2; j >= 0; j -= 2 {
			state[j+b] ^= ty ^ state[j]
			state[j+b+1] ^= tx ^ state[j+1]
		}

		// Invert the ARX-box (Alzette) layer.
		for j := 0; j < 2*b; j += 2 {
			x, y := state[j], state[j+1]
			c := RCON[j>>1]

			x ^= c
			y ^= bits.RotateLeft32(x, -16)
			x -= bits.RotateLeft32(y, -24)

			x ^= c
			y ^= bits.RotateLeft32(x, -31)
			x -= y

			x ^= c
			y ^= bits.RotateLeft32(x, -17)
			x -= bits.RotateLeft32(y, -17)

			x ^= c
			y ^= bits.RotateLeft32(x, -24)
			x -= bits.RotateLeft32(y, -31)

			state[j], state[j+1] = x, y
		}

		// Undo round-constant injection.
		state[1] ^= RCON[i%8]
		state[3] ^= uint32(i)
	}
	return nil
}
