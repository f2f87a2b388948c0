package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeon/internal/rng"
)

// TestLCG_KnownSequence pins the first outputs for seed 0 so the recurrence
// cannot drift silently.
func TestLCG_KnownSequence(t *testing.T) {
	src := rng.NewLCG(0)
	assert.InDelta(t, 1013904223.0/4294967296.0, src.Next(), 1e-12)
	// (1013904223*1664525 + 1013904223) mod 2^32 = 1196435762
	assert.InDelta(t, 1196435762.0/4294967296.0, src.Next(), 1e-12)
}

func TestLCG_Seed(t *testing.T) {
	assert.Equal(t, int64(42), rng.NewLCG(42).Seed())
}

// TestLCG_Deterministic verifies identical seeds replay identical streams.
func TestLCG_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		a := rng.NewLCG(seed)
		b := rng.NewLCG(seed)
		for i := 0; i < 64; i++ {
			require.Equal(rt, a.Next(), b.Next(), "draw %d diverged", i)
		}
	})
}

// TestLCG_Next_InRange verifies the postcondition 0 <= Next() < 1.
func TestLCG_Next_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rng.NewLCG(rapid.Int64().Draw(rt, "seed"))
		for i := 0; i < 256; i++ {
			v := src.Next()
			assert.GreaterOrEqual(rt, v, 0.0)
			assert.Less(rt, v, 1.0)
		}
	})
}

// TestLCG_NextInt_InRange verifies NextInt stays within its inclusive bounds.
func TestLCG_NextInt_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := rng.NewLCG(rapid.Int64().Draw(rt, "seed"))
		lo := rapid.IntRange(-100, 100).Draw(rt, "min")
		hi := lo + rapid.IntRange(0, 100).Draw(rt, "span")
		for i := 0; i < 64; i++ {
			v := src.NextInt(lo, hi)
			assert.GreaterOrEqual(rt, v, lo)
			assert.LessOrEqual(rt, v, hi)
		}
	})
}

func TestLCG_NextInt_Degenerate(t *testing.T) {
	src := rng.NewLCG(7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 5, src.NextInt(5, 5))
	}
}

func TestLCG_NextInt_PanicsOnInvertedRange(t *testing.T) {
	src := rng.NewLCG(1)
	assert.Panics(t, func() { src.NextInt(3, 2) })
}

func TestLCG_NextBool_Extremes(t *testing.T) {
	src := rng.NewLCG(99)
	for i := 0; i < 100; i++ {
		assert.False(t, src.NextBool(0))
		assert.True(t, src.NextBool(1))
	}
}

// TestLCG_SatisfiesSource is a compile-time and runtime interface check.
func TestLCG_SatisfiesSource(t *testing.T) {
	var src rng.Source = rng.NewLCG(3)
	assert.NotNil(t, src)
}
