// Package rng provides the seeded, deterministic randomness used by the
// dungeon generator. Every stochastic decision made during generation draws
// from a single Source so that identical seeds replay identical dungeons.
package rng

// Source is a deterministic pseudo-random stream.
//
// Implementations are NOT required to be safe for concurrent use; a Source
// belongs to exactly one generation run.
type Source interface {
	// Next returns the next value in [0, 1).
	Next() float64
	// NextInt returns a uniform integer in the inclusive range [min, max].
	//
	// Precondition: min <= max.
	NextInt(min, max int) int
	// NextBool returns true with probability p.
	NextBool(p float64) bool
}
