package automatic

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// SeedBytes expands a numeric game seed into the 32 bytes the piece
// generator is keyed with.
func SeedBytes(seed uint64) [32]byte {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	return b
}

// GameSeeds returns a seed per game. A base of 0 picks fresh random seeds;
// any other base yields the same seeds every time.
func GameSeeds(base uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		if base == 0 {
			seeds[i] = frand.Uint64n(1<<63) + 1
		} else {
			seeds[i] = base + uint64(i)
		}
	}
	return seeds
}
