// Package rng provides the injectable random source every probabilistic
// branch of the simulation draws from.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the minimal random source the simulation needs. Implementations
// must return Float64 values in [0, 1) and IntN values in [0, n).
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a PCG-backed Source. The same seed always yields the same
// sequence.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewFromTime seeds a Source from the wall clock. Used when no seed is
// configured.
func NewFromTime() (Source, uint64) {
	seed := uint64(time.Now().UnixNano())
	return New(seed), seed
}

// Uniform returns a float in [lo, hi).
func Uniform(r Source, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// UniformInt returns an int in [lo, hi).
func UniformInt(r Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo)
}

// Bernoulli reports true with probability p.
func Bernoulli(r Source, p float64) bool {
	return r.Float64() < p
}

// Pick returns a uniformly chosen index in [0, n). n must be positive.
func Pick(r Source, n int) int {
	return r.IntN(n)
}
