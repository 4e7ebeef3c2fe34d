package trailresult

import (
	"encoding/gob"
	"os"

	"github.com/cryptolu/sparkle/pkg/trail"
)

// Checkpoint holds a trail-search outcome worth persisting: the config it
// was found under and the resulting trail and bound. Grounded on the
// teacher's pkg/result.Checkpoint / SaveCheckpoint / LoadCheckpoint.
type Checkpoint struct {
	Config trail.Config
	Result trail.Result
	Found  bool
}

func init() {
	gob.Register(trail.Differential{})
}

// Save writes a checkpoint to path.
func Save(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// Load reads a checkpoint previously written by Save.
func Load(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
