// Package schwaemm implements the SCHWAEMM family of authenticated ciphers:
// sponge-based AEAD built on the SPARKLE permutation.
package schwaemm

import (
	"errors"

	"github.com/cryptolu/sparkle/pkg/sparkle"
)

// Sentinel errors surfaced to callers (spec §7).
var (
	// ErrAuthTagMismatch is returned by Open/Decrypt when the authentication
	// tag does not verify. Any plaintext computed during verification is
	// zeroized before this error is returned.
	ErrAuthTagMismatch = errors.New("schwaemm: authentication tag mismatch")
	// ErrInvalidInput is returned for malformed call arguments, e.g. a
	// ciphertext shorter than the tag, or a key of the wrong length.
	ErrInvalidInput = errors.New("schwaemm: invalid input")
	// ErrUnsupportedInstance is returned when an Instance's byte-size
	// parameters don't describe a valid (state, rate) sponge configuration.
	ErrUnsupportedInstance = errors.New("schwaemm: unsupported instance parameters")
)

// Instance names one of the four SCHWAEMM parameter sets (spec §4.3).
type Instance struct {
	Name       string
	KeyBytes   int
	NonceBytes int
	TagBytes   int

	stateBytes int
	rateBytes  int
	stepsSlim  int
	stepsBig   int
}

// The four SCHWAEMM instances defined by spec §4.3.
var (
	Schwaemm128_128 = Instance{Name: "SCHWAEMM128128", KeyBytes: 16, NonceBytes: 16, TagBytes: 16, stateBytes: 32, rateBytes: 16, stepsSlim: 7, stepsBig: 10}
	Schwaemm256_128 = Instance{Name: "SCHWAEMM256128", KeyBytes: 16, NonceBytes: 32, TagBytes: 16, stateBytes: 48, rateBytes: 32, stepsSlim: 7, stepsBig: 11}
	Schwaemm192_192 = Instance{Name: "SCHWAEMM192192", KeyBytes: 24, NonceBytes: 24, TagBytes: 24, stateBytes: 48, rateBytes: 24, stepsSlim: 7, stepsBig: 11}
	Schwaemm256_256 = Instance{Name: "SCHWAEMM256256", KeyBytes: 32, NonceBytes: 32, TagBytes: 32, stateBytes: 64, rateBytes: 32, stepsSlim: 8, stepsBig: 12}
)

func (inst Instance) stateWords() int { return inst.stateBytes / 4 }
func (inst Instance) rateWords() int  { return inst.rateBytes / 4 }
func (inst Instance) capBytes() int   { return inst.stateBytes - inst.rateBytes }
func (inst Instance) capWords() int   { return inst.capBytes() / 4 }
func (inst Instance) capBrans() int   { return inst.capBytes() / 8 }

// tweak reports whether the rate-whitening capacity index must wrap around
// (spec §4.3.2): true exactly when the rate is wider than the capacity, the
// case for SCHWAEMM256128.
func (inst Instance) tweak() bool { return inst.rateWords() > inst.capWords() }

// validate checks that inst describes a consistent sponge configuration
// (spec §3's state/rate/capacity invariants) before it is used to drive the
// permutation.
func (inst Instance) validate() error {
	if inst.stateBytes <= 0 || inst.rateBytes <= 0 {
		return ErrUnsupportedInstance
	}
	if inst.stateBytes%8 != 0 || inst.rateBytes%8 != 0 {
		return ErrUnsupportedInstance
	}
	capBytes := inst.capBytes()
	if capBytes <= 0 || capBytes*2 < inst.rateBytes {
		return ErrUnsupportedInstance
	}
	branches := inst.stateBytes / 8
	if branches < sparkle.MinBranches || branches > sparkle.MaxBranches {
		return ErrUnsupportedInstance
	}
	if inst.KeyBytes != capBytes || inst.TagBytes != capBytes {
		// The reference always sizes the capacity to exactly hold the key
		// and tag; this module doesn't implement any instance where that
		// isn't true.
		return ErrUnsupportedInstance
	}
	if inst.NonceBytes != inst.rateBytes {
		return ErrUnsupportedInstance
	}
	return nil
}

// constA0, constA1, constM2, constM3 are the rate-whitening domain-separation
// constants (spec §4.3): ((value ^ (1 << capBrans)) << 24).
func (inst Instance) constA0() uint32 { return domainConst(0, inst.capBrans()) }
func (inst Instance) constA1() uint32 { return domainConst(1, inst.capBrans()) }
func (inst Instance) constM2() uint32 { return domainConst(2, inst.capBrans()) }
func (inst Instance) constM3() uint32 { return domainConst(3, inst.capBrans()) }

func domainConst(value uint32, capBrans int) uint32 {
	return (value ^ (uint32(1) << uint(capBrans))) << 24
}
