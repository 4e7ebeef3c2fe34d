// Package esch implements the ESCH family of lightweight sponge hash
// functions, built on the SPARKLE permutation.
package esch

import "github.com/cryptolu/sparkle/pkg/sparkle"

// Instance names one of the two ESCH parameter sets (spec §4.4).
type Instance struct {
	Name        string
	DigestBytes int

	stateBytes int
	rateBytes  int
	stepsSlim  int
	stepsBig   int
}

// The two ESCH instances defined by spec §4.4.
var (
	Esch256 = Instance{Name: "ESCH256", DigestBytes: 32, stateBytes: 48, rateBytes: 16, stepsSlim: 7, stepsBig: 11}
	Esch384 = Instance{Name: "ESCH384", DigestBytes: 48, stateBytes: 64, rateBytes: 16, stepsSlim: 8, stepsBig: 12}
)

func (inst Instance) stateWords() int { return inst.stateBytes / 4 }
func (inst Instance) rateWords() int  { return inst.rateBytes / 4 }

// half is the word count of the left half of the state, the span touched by
// message injection: equal to the branch count (each branch is two words),
// so it is both stateWords()/2 and the index esch.c writes the domain
// constant to via STATE_BRANS-1.
func (inst Instance) half() int { return inst.stateBytes / 8 }

const (
	constM1 = uint32(1) << 24
	constM2 = uint32(2) << 24
)

func branches(inst Instance) int {
	return inst.stateBytes / 8
}

func validInstance(inst Instance) bool {
	if inst.stateBytes <= 0 || inst.rateBytes <= 0 || inst.DigestBytes <= 0 {
		return false
	}
	if inst.stateBytes%8 != 0 || inst.rateBytes%8 != 0 {
		return false
	}
	if inst.DigestBytes%inst.rateBytes != 0 {
		return false
	}
	b := branches(inst)
	return b >= sparkle.MinBranches && b <= sparkle.MaxBranches
}
