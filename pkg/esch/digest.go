package esch

import (
	"errors"
	"hash"

	"github.com/cryptolu/sparkle/internal/sponge"
	"github.com/cryptolu/sparkle/pkg/sparkle"
)

// ErrUnsupportedInstance is returned by New when an Instance's byte-size
// parameters don't describe a valid sponge configuration.
var ErrUnsupportedInstance = errors.New("esch: unsupported instance parameters")

// Digest implements hash.Hash for one ESCH instance, buffering input the
// same way a block-cipher-based hash does: full blocks are absorbed as soon
// as a Write call proves they aren't the last one, and the tail is held
// back until Sum forces finalization. Grounded on gtank-blake2's
// blake2b.Digest (buf/offset buffering shape).
type Digest struct {
	inst   Instance
	state  []uint32
	buf    []byte
	offset int
}

var _ hash.Hash = (*Digest)(nil)

// New returns a Digest for inst, ready to hash a fresh message.
func New(inst Instance) (*Digest, error) {
	if !validInstance(inst) {
		return nil, ErrUnsupportedInstance
	}
	d := &Digest{
		inst:  inst,
		state: make([]uint32, inst.stateWords()),
		buf:   make([]byte, inst.rateBytes),
	}
	return d, nil
}

// Write implements hash.Hash. It never returns an error.
func (d *Digest) Write(p []byte) (n int, err error) {
	written := 0
	rateBytes := len(d.buf)

	for written < len(p) {
		freeBytes := rateBytes - d.offset
		inputLeft := len(p) - written

		if inputLeft <= freeBytes {
			copy(d.buf[d.offset:d.offset+inputLeft], p[written:])
			d.offset += inputLeft
			return written + inputLeft, nil
		}

		copy(d.buf[d.offset:], p[written:written+freeBytes])
		block := make([]uint32, d.inst.rateWords())
		sponge.LoadWords(block, d.buf)
		addMsgBlock(d.state, block, d.inst.rateWords(), d.inst.half())
		sparkle.Permute(d.state, d.inst.stepsSlim)

		written += freeBytes
		d.offset = 0
	}
	return written, nil
}

// Sum implements hash.Hash: it finalizes a copy of the current state,
// leaving the Digest itself writable afterward.
func (d *Digest) Sum(b []byte) []byte {
	state := append([]uint32(nil), d.state...)
	tail := append([]byte(nil), d.buf[:d.offset]...)

	half := d.inst.half()
	if len(tail) < len(d.buf) {
		state[half-1] ^= constM1
	} else {
		state[half-1] ^= constM2
	}
	buf := make([]byte, len(d.buf))
	n := copy(buf, tail)
	if n < len(buf) {
		sponge.Pad(buf, tail)
	}
	block := make([]uint32, d.inst.rateWords())
	sponge.LoadWords(block, buf)
	addMsgBlock(state, block, d.inst.rateWords(), half)
	sparkle.Permute(state, d.inst.stepsBig)

	digest := squeeze(state, d.inst)

	if n := len(b) + len(digest); cap(b) >= n {
		out := b[:n]
		copy(out[len(b):], digest)
		return out
	}
	out := make([]byte, len(b)+len(digest))
	copy(out, b)
	copy(out[len(b):], digest)
	return out
}

// Reset implements hash.Hash.
func (d *Digest) Reset() {
	for i := range d.state {
		d.state[i] = 0
	}
	d.offset = 0
}

// Size implements hash.Hash.
func (d *Digest) Size() int { return d.inst.DigestBytes }

// BlockSize implements hash.Hash.
func (d *Digest) BlockSize() int { return len(d.buf) }
