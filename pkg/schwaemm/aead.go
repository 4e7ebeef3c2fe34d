package schwaemm

import (
	"crypto/cipher"

	"github.com/cryptolu/sparkle/internal/sponge"
	"github.com/cryptolu/sparkle/pkg/sparkle"
)

// AEAD implements crypto/cipher.AEAD for one SCHWAEMM instance and key.
type AEAD struct {
	inst Instance
	key  []byte
}

var _ cipher.AEAD = (*AEAD)(nil)

// New constructs an AEAD for inst bound to key, which must be exactly
// inst.KeyBytes long.
func New(inst Instance, key []byte) (*AEAD, error) {
	if err := inst.validate(); err != nil {
		return nil, err
	}
	if len(key) != inst.KeyBytes {
		return nil, ErrInvalidInput
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &AEAD{inst: inst, key: k}, nil
}

// NonceSize implements cipher.AEAD.
func (a *AEAD) NonceSize() int { return a.inst.NonceBytes }

// Overhead implements cipher.AEAD.
func (a *AEAD) Overhead() int { return a.inst.TagBytes }

// initState sets up the sponge state for a fresh Seal/Open call: the nonce
// fills the rate, the key fills the capacity, then the state is permuted
// with the full ("big") step count. Grounded on schwaemm.c's Initialize.
func (inst Instance) initState(key, nonce []byte) []uint32 {
	state := make([]uint32, inst.stateWords())
	rateWords := inst.rateWords()
	sponge.LoadWords(state[:rateWords], nonce)
	sponge.LoadWords(state[rateWords:], key)
	sparkle.Permute(state, inst.stepsBig)
	return state
}

// absorbAD folds associated data into state, one rate-sized block at a
// time, slim-permuting between full blocks and big-permuting after the
// domain-separated final block. Grounded on schwaemm.c's ProcessAssocData.
func absorbAD(state []uint32, ad []byte, inst Instance) {
	rateWords := inst.rateWords()
	capWords := inst.capWords()
	tweak := inst.tweak()
	rateBytes := rateWords * 4
	in := make([]uint32, rateWords)
	for len(ad) > rateBytes {
		sponge.LoadWords(in, ad[:rateBytes])
		rhoWhiAut(state, in, rateWords, capWords, tweak)
		sparkle.Permute(state, inst.stepsSlim)
		ad = ad[rateBytes:]
	}
	if len(ad) < rateBytes {
		state[len(state)-1] ^= inst.constA0()
	} else {
		state[len(state)-1] ^= inst.constA1()
	}
	adLastBlock(state, ad, rateWords, capWords, tweak)
	sparkle.Permute(state, inst.stepsBig)
}

// encryptStream folds plaintext into state and writes the matching
// ciphertext to out. Grounded on schwaemm.c's ProcessPlainText.
func encryptStream(state []uint32, out, in []byte, inst Instance) {
	rateWords := inst.rateWords()
	capWords := inst.capWords()
	tweak := inst.tweak()
	rateBytes := rateWords * 4
	inWords := make([]uint32, rateWords)
	outWords := make([]uint32, rateWords)
	for len(in) > rateBytes {
		sponge.LoadWords(inWords, in[:rateBytes])
		rhoWhiEnc(state, outWords, inWords, rateWords, capWords, tweak)
		sponge.StoreWords(out[:rateBytes], outWords)
		sparkle.Permute(state, inst.stepsSlim)
		in = in[rateBytes:]
		out = out[rateBytes:]
	}
	if len(in) < rateBytes {
		state[len(state)-1] ^= inst.constM2()
	} else {
		state[len(state)-1] ^= inst.constM3()
	}
	last := encryptLastBlock(state, in, rateWords, capWords, tweak)
	copy(out[:len(in)], last)
	sparkle.Permute(state, inst.stepsBig)
}

// decryptStream is the inverse of encryptStream: it folds ciphertext into
// state and writes the recovered plaintext to out. Grounded on schwaemm.c's
// ProcessCipherText.
func decryptStream(state []uint32, out, in []byte, inst Instance) {
	rateWords := inst.rateWords()
	capWords := inst.capWords()
	tweak := inst.tweak()
	rateBytes := rateWords * 4
	inWords := make([]uint32, rateWords)
	outWords := make([]uint32, rateWords)
	for len(in) > rateBytes {
		sponge.LoadWords(inWords, in[:rateBytes])
		rhoWhiDec(state, outWords, inWords, rateWords, capWords, tweak)
		sponge.StoreWords(out[:rateBytes], outWords)
		sparkle.Permute(state, inst.stepsSlim)
		in = in[rateBytes:]
		out = out[rateBytes:]
	}
	if len(in) < rateBytes {
		state[len(state)-1] ^= inst.constM2()
	} else {
		state[len(state)-1] ^= inst.constM3()
	}
	last := decryptLastBlock(state, in, rateWords, capWords, tweak)
	copy(out[:len(in)], last)
	sparkle.Permute(state, inst.stepsBig)
}

// finalize XORs the key back into the capacity, the last step before tag
// material can be read out. Grounded on schwaemm.c's Finalize.
func finalize(state []uint32, key []byte, rateWords int) {
	keyWords := make([]uint32, len(state)-rateWords)
	sponge.LoadWords(keyWords, key)
	for i, w := range keyWords {
		state[rateWords+i] ^= w
	}
}

// generateTag reads the tag out of the finalized capacity. Grounded on
// schwaemm.c's GenerateTag.
func generateTag(state []uint32, rateWords, tagBytes int) []byte {
	tagWords := tagBytes / 4
	tag := make([]byte, tagBytes)
	sponge.StoreWords(tag, state[rateWords:rateWords+tagWords])
	return tag
}

// verifyTag compares tag against the finalized capacity without leaking
// timing information about the position of the first mismatch. Grounded on
// schwaemm.c's VerifyTag, which folds the same word-wise XOR-OR pattern
// over the capacity rather than a byte-wise compare.
func verifyTag(state []uint32, tag []byte, rateWords, tagBytes int) bool {
	tagWords := make([]uint32, tagBytes/4)
	sponge.LoadWords(tagWords, tag)
	var diff uint32
	for i, w := range tagWords {
		diff |= state[rateWords+i] ^ w
	}
	return diff == 0
}

// sliceForAppend extends in by n bytes, reusing its backing array when
// there's room (the same append-friendly idiom crypto/cipher's GCM uses to
// let dst, plaintext and ciphertext all alias one buffer).
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}

// Seal implements cipher.AEAD. It panics if len(nonce) != a.NonceSize(), the
// same contract crypto/cipher's GCM implements.
func (a *AEAD) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != a.inst.NonceBytes {
		panic("schwaemm: incorrect nonce length")
	}
	state := a.inst.initState(a.key, nonce)
	if len(additionalData) > 0 {
		absorbAD(state, additionalData, a.inst)
	}
	ret, out := sliceForAppend(dst, len(plaintext)+a.inst.TagBytes)
	ciphertext := out[:len(plaintext)]
	if len(plaintext) > 0 {
		encryptStream(state, ciphertext, plaintext, a.inst)
	}
	finalize(state, a.key, a.inst.rateWords())
	tag := generateTag(state, a.inst.rateWords(), a.inst.TagBytes)
	copy(out[len(plaintext):], tag)
	return ret
}

// Open implements cipher.AEAD. It panics if len(nonce) != a.NonceSize(). A
// ciphertext shorter than the tag is rejected with ErrInvalidInput; a tag
// mismatch is rejected with ErrAuthTagMismatch and the recovered plaintext
// is zeroized before returning.
func (a *AEAD) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != a.inst.NonceBytes {
		panic("schwaemm: incorrect nonce length")
	}
	if len(ciphertext) < a.inst.TagBytes {
		return nil, ErrInvalidInput
	}
	ctLen := len(ciphertext) - a.inst.TagBytes
	ct := ciphertext[:ctLen]
	tag := ciphertext[ctLen:]

	state := a.inst.initState(a.key, nonce)
	if len(additionalData) > 0 {
		absorbAD(state, additionalData, a.inst)
	}
	ret, out := sliceForAppend(dst, ctLen)
	plaintext := out[:ctLen]
	if ctLen > 0 {
		decryptStream(state, plaintext, ct, a.inst)
	}
	finalize(state, a.key, a.inst.rateWords())
	if !verifyTag(state, tag, a.inst.rateWords(), a.inst.TagBytes) {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrAuthTagMismatch
	}
	return ret, nil
}

// Encrypt is the spec-level convenience wrapper around Seal: it returns the
// ciphertext with the tag appended.
func Encrypt(inst Instance, key, nonce, ad, plaintext []byte) ([]byte, error) {
	a, err := New(inst, key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != inst.NonceBytes {
		return nil, ErrInvalidInput
	}
	return a.Seal(nil, nonce, plaintext, ad), nil
}

// Decrypt is the spec-level convenience wrapper around Open. ctAndTag is the
// ciphertext with the tag appended, as returned by Encrypt.
func Decrypt(inst Instance, key, nonce, ad, ctAndTag []byte) ([]byte, error) {
	a, err := New(inst, key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != inst.NonceBytes {
		return nil, ErrInvalidInput
	}
	return a.Open(nil, nonce, ctAndTag, ad)
}
