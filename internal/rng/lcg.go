package rng

import "math"

// LCG parameters from Numerical Recipes; the modulus is 2^32.
const (
	lcgMultiplier uint64 = 1664525
	lcgIncrement  uint64 = 1013904223
	lcgModulus    uint64 = 1 << 32
)

// LCG is a 32-bit linear congruential generator:
//
//	state = (state*1664525 + 1013904223) mod 2^32
//	Next() = state / 2^32
//
// Invariant: the output sequence is a pure function of the construction seed.
type LCG struct {
	seed  int64
	state uint64
}

// NewLCG returns an LCG seeded with seed. Only the low 32 bits of seed
// influence the stream.
//
// Postcondition: two LCGs built from the same seed produce identical sequences.
func NewLCG(seed int64) *LCG {
	return &LCG{seed: seed, state: uint64(uint32(seed))}
}

// Seed returns the seed the generator was constructed with.
func (l *LCG) Seed() int64 {
	return l.seed
}

// Next advances the recurrence and returns state / 2^32.
//
// Postcondition: 0 <= result < 1.
func (l *LCG) Next() float64 {
	l.state = (l.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(l.state) / float64(lcgModulus)
}

// NextInt returns floor(Next()*(max-min+1)) + min.
//
// Precondition: min <= max. Panics with "rng: NextInt called with min > max" otherwise.
// Postcondition: min <= result <= max.
func (l *LCG) NextInt(min, max int) int {
	if min > max {
		panic("rng: NextInt called with min > max")
	}
	return int(math.Floor(l.Next()*float64(max-min+1))) + min
}

// NextBool reports whether the next draw falls below p.
//
// Postcondition: p <= 0 always yields false; p >= 1 always yields true.
func (l *LCG) NextBool(p float64) bool {
	return l.Next() < p
}
