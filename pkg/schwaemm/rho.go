package schwaemm

import "github.com/cryptolu/sparkle/internal/sponge"

// capIndex implements the CAP_INDEX wraparound (spec §4.3.2): when the rate
// is wider than the capacity (SCHWAEMM256128), rate-whitening must fold the
// upper half of the rate against a capacity that's too narrow to index
// directly, so the index wraps modulo the capacity width.
func capIndex(i, capWords int, tweak bool) int {
	if tweak {
		return i % capWords
	}
	return i
}

// rhoWhiAut is the authentication feedback function: it folds a full
// rate-sized associated-data block into the rate, whitened by the capacity,
// without producing any output. Grounded on schwaemm.c's rho_whi_aut.
func rhoWhiAut(state, in []uint32, rateWords, capWords int, tweak bool) {
	half := rateWords / 2
	for i, j := 0, half; i < half; i, j = i+1, j+1 {
		tmp := state[i]
		state[i] = state[j] ^ in[i] ^ state[rateWords+i]
		state[j] ^= tmp ^ in[j] ^ state[rateWords+capIndex(j, capWords, tweak)]
	}
}

// rhoWhiEnc is rho' for encryption: it folds a rate-sized plaintext block
// into the rate and emits the corresponding ciphertext block. Grounded on
// schwaemm.c's rho_whi_enc.
func rhoWhiEnc(state, out, in []uint32, rateWords, capWords int, tweak bool) {
	half := rateWords / 2
	for i, j := 0, half; i < half; i, j = i+1, j+1 {
		tmp1, tmp2 := state[i], state[j]
		state[i] = state[j] ^ in[i] ^ state[rateWords+i]
		state[j] ^= tmp1 ^ in[j] ^ state[rateWords+capIndex(j, capWords, tweak)]
		out[i] = in[i] ^ tmp1
		out[j] = in[j] ^ tmp2
	}
}

// rhoWhiDec is rho' for decryption, the exact inverse of rhoWhiEnc: it
// recovers a rate-sized plaintext block from ciphertext. Grounded on
// schwaemm.c's rho_whi_dec.
func rhoWhiDec(state, out, in []uint32, rateWords, capWords int, tweak bool) {
	half := rateWords / 2
	for i, j := 0, half; i < half; i, j = i+1, j+1 {
		tmp1, tmp2 := state[i], state[j]
		state[i] ^= state[j] ^ in[i] ^ state[rateWords+i]
		state[j] = tmp1 ^ in[j] ^ state[rateWords+capIndex(j, capWords, tweak)]
		out[i] = in[i] ^ tmp1
		out[j] = in[j] ^ tmp2
	}
}

// adLastBlock folds the final (possibly short) associated-data block into
// the state. Short blocks are zero-padded with a single terminating 0x80
// byte, matching rho_whi_aut_last.
func adLastBlock(state []uint32, ad []byte, rateWords, capWords int, tweak bool) {
	rateBytes := rateWords * 4
	buf := make([]byte, rateBytes)
	n := copy(buf, ad)
	if n < rateBytes {
		sponge.Pad(buf, ad)
	}
	in := make([]uint32, rateWords)
	sponge.LoadWords(in, buf)
	rhoWhiAut(state, in, rateWords, capWords, tweak)
}

// encryptLastBlock folds the final (possibly short) plaintext block into
// the state and returns the corresponding ciphertext bytes (length
// len(plaintext)). Short blocks are zero-padded, matching rho_whi_enc_last.
func encryptLastBlock(state []uint32, plaintext []byte, rateWords, capWords int, tweak bool) []byte {
	rateBytes := rateWords * 4
	buf := make([]byte, rateBytes)
	n := copy(buf, plaintext)
	if n < rateBytes {
		sponge.Pad(buf, plaintext)
	}
	in := make([]uint32, rateWords)
	sponge.LoadWords(in, buf)
	out := make([]uint32, rateWords)
	rhoWhiEnc(state, out, in, rateWords, capWords, tweak)
	outBuf := make([]byte, rateBytes)
	sponge.StoreWords(outBuf, out)
	return outBuf[:n]
}

// decryptLastBlock folds the final (possibly short) ciphertext block into
// the state and returns the corresponding plaintext bytes. Unlike the
// encrypt/AD cases, a short block's missing bytes are padded with the
// state's own current rate bytes rather than zero, so that the rho' fold
// cancels them out and leaves only the 0x80 marker at the boundary.
// Grounded on schwaemm.c's rho_whi_dec_last.
func decryptLastBlock(state []uint32, ciphertext []byte, rateWords, capWords int, tweak bool) []byte {
	rateBytes := rateWords * 4
	buf := make([]byte, rateBytes)
	n := copy(buf, ciphertext)
	if n < rateBytes {
		stateBytes := make([]byte, rateBytes)
		sponge.StoreWords(stateBytes, state[:rateWords])
		copy(buf[n:], stateBytes[n:])
		buf[n] ^= 0x80
	}
	in := make([]uint32, rateWords)
	sponge.LoadWords(in, buf)
	out := make([]uint32, rateWords)
	rhoWhiDec(state, out, in, rateWords, capWords, tweak)
	outBuf := make([]byte, rateBytes)
	sponge.StoreWords(outBuf, out)
	return outBuf[:n]
}
