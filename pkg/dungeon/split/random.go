package split

import "math/rand/v2"

const seedMix = 0x9e3779b97f4a7c15

// NewSource returns a deterministic random source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^seedMix))
}

// between returns an integer in [lo, hi). When the range is empty it
// returns lo.
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}
