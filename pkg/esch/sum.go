package esch

// Sum256 computes the ESCH256 digest of data in one shot, mirroring
// esch.c's crypto_hash (Initialize + ProcessMessage + Finalize) rather than
// going through the incremental Digest.
func Sum256(data []byte) [32]byte {
	var out [32]byte
	copy(out[:], sumOneShot(Esch256, data))
	return out
}

// Sum384 computes the ESCH384 digest of data in one shot.
func Sum384(data []byte) [48]byte {
	var out [48]byte
	copy(out[:], sumOneShot(Esch384, data))
	return out
}

func sumOneShot(inst Instance, data []byte) []byte {
	state := make([]uint32, inst.stateWords())
	processMessage(state, data, inst)
	return squeeze(state, inst)
}
