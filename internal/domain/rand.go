package domain

import (
	"math/rand/v2"
	"sync"
)

// Rand is the randomness source used by sampling, noise, and date assignment.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a PCG-backed source seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeededRand is NewRand for configured seeds, where 0 asks for a time-seeded
// source.
func SeededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(clock.Now().UnixNano())
	}
	return NewRand(seed)
}

// LockedRand serializes access to a Rand shared between goroutines.
type LockedRand struct {
	mu  sync.Mutex
	src Rand
}

// NewLockedRand wraps src for concurrent use.
func NewLockedRand(src Rand) *LockedRand {
	return &LockedRand{src: src}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// uniform returns a value in [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// pick returns a uniformly chosen element of items. items must be non-empty.
func pick[T any](rng Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
