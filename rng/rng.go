// Package rng builds the random number generators shared by the engines.
package rng

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// New returns a ChaCha generator seeded from seed, or from the system if
// seed is 0.
func New(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}
