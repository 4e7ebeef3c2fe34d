package esch

import (
	"math/bits"

	"github.com/cryptolu/sparkle/internal/sponge"
	"github.com/cryptolu/sparkle/pkg/sparkle"
)

func ell(x uint32) uint32 {
	return bits.RotateLeft32(x^(x<<16), -16)
}

// addMsgBlock injects a rate-sized message block into state via ESCH's
// message-injection Feistel function. The domain constant for the last
// block is not part of this fold; processMessage XORs it into the state
// directly before calling it.
// Grounded on esch.c's add_msg_blk / add_msg_blk_last: both share this
// fold, the only difference being how `in` is built for the final block.
func addMsgBlock(state, in []uint32, rateWords, half int) {
	var tmpx, tmpy uint32
	for i := 0; i < rateWords; i += 2 {
		tmpx ^= in[i]
		tmpy ^= in[i+1]
	}
	tmpx = ell(tmpx)
	tmpy = ell(tmpy)
	for i := 0; i < rateWords; i += 2 {
		state[i] ^= in[i] ^ tmpy
		state[i+1] ^= in[i+1] ^ tmpx
	}
	for i := rateWords; i < half; i += 2 {
		state[i] ^= tmpy
		state[i+1] ^= tmpx
	}
}

// processMessage absorbs in into state, one rate-sized block at a time:
// slim-permuting between full blocks, then injecting the domain constant
// and a padded final block before big-permuting. Grounded on esch.c's
// ProcessMessage.
func processMessage(state []uint32, in []byte, inst Instance) {
	rateWords := inst.rateWords()
	rateBytes := rateWords * 4
	half := inst.half()
	block := make([]uint32, rateWords)

	for len(in) > rateBytes {
		sponge.LoadWords(block, in[:rateBytes])
		addMsgBlock(state, block, rateWords, half)
		sparkle.Permute(state, inst.stepsSlim)
		in = in[rateBytes:]
	}

	if len(in) < rateBytes {
		state[half-1] ^= constM1
	} else {
		state[half-1] ^= constM2
	}

	buf := make([]byte, rateBytes)
	n := copy(buf, in)
	if n < rateBytes {
		sponge.Pad(buf, in)
	}
	sponge.LoadWords(block, buf)
	addMsgBlock(state, block, rateWords, half)
	sparkle.Permute(state, inst.stepsBig)
}

// squeeze reads DigestBytes out of state, slim-permuting between each
// rate-sized chunk. Grounded on esch.c's Finalize.
func squeeze(state []uint32, inst Instance) []byte {
	rateWords := inst.rateWords()
	rateBytes := rateWords * 4
	out := make([]byte, inst.DigestBytes)

	sponge.StoreWords(out[:rateBytes], state[:rateWords])
	written := rateBytes
	for written < len(out) {
		sparkle.Permute(state, inst.stepsSlim)
		sponge.StoreWords(out[written:written+rateBytes], state[:rateWords])
		written += rateBytes
	}
	return out
}
