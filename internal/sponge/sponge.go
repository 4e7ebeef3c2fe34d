// Package sponge implements the rate/capacity absorb-and-permute machinery
// shared by the SCHWAEMM AEAD family and the ESCH hash family. It is not a
// public API: both constructions need slightly different rho functions on
// top of it, so only the padding and byte/word plumbing are factored out
// here.
package sponge

import "encoding/binary"

// Pad copies src (which must be shorter than len(dst)) into dst, appends a
// single 0x80 byte, and zero-fills the remainder. dst is fully overwritten.
func Pad(dst, src []byte) {
	n := copy(dst, src)
	dst[n] = 0x80
	for i := n + 1; i < len(dst); i++ {
		dst[i] = 0
	}
}

// LoadWords decodes little-endian 32-bit words from b into words.
// len(b) must be 4*len(words).
func LoadWords(words []uint32, b []byte) {
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
}

// StoreWords encodes words into b as little-endian 32-bit words.
// len(b) must be 4*len(words).
func StoreWords(b []byte, words []uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[4*i:], w)
	}
}
