// Package dice wraps the game's randomness behind a small interface so
// every probabilistic roll can be scripted in tests.
package dice

import (
	"math/rand/v2"
	"time"
)

// Source is satisfied by *rand.Rand.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// New returns a PCG-backed source. A zero seed seeds from the clock.
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Between returns a uniform integer in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// Chance reports whether a percentage roll succeeds. percent is clamped to [0, 100].
func Chance(src Source, percent float64) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Float64()*100 < percent
}

// Pick returns a random element of items. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Shuffle permutes items in place.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
