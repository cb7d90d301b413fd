// Package chooser decides which placement target survives when an
// application is reduced to a single unit.
package chooser

import (
	"math/rand/v2"
	"time"
)

// Chooser provides an abstraction over the placement pick to enable deterministic testing.
type Chooser interface {
	// Intn returns an index in [0, n). n is always positive.
	Intn(n int) int
}

// Random implements Chooser with a pseudo-random source.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a Random seeded from the wall clock.
func NewRandom() *Random {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a Random whose sequence is fixed by seed.
func NewSeeded(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))}
}

// Intn returns a uniformly distributed index in [0, n).
func (r *Random) Intn(n int) int {
	return r.rng.IntN(n)
}

// First implements Chooser by always keeping the first target.
type First struct{}

// Intn always returns 0.
func (First) Intn(int) int {
	return 0
}

// Fixed implements Chooser with a scripted sequence of picks for testing.
// Each pick is clamped into [0, n); once the script runs out it returns 0.
type Fixed struct {
	picks []int
}

// NewFixed creates a Fixed chooser returning picks in order.
func NewFixed(picks ...int) *Fixed {
	return &Fixed{picks: picks}
}

// Intn returns the next scripted pick.
func (f *Fixed) Intn(n int) int {
	if len(f.picks) == 0 {
		return 0
	}
	p := f.picks[0]
	f.picks = f.picks[1:]
	if p < 0 {
		return 0
	}
	if p >= n {
		return n - 1
	}
	return p
}

// ForPolicy returns the Chooser for a named placement policy. "first"
// keeps the first target; anything else picks at random, seeded with seed
// unless seed is zero.
func ForPolicy(policy string, seed int64) Chooser {
	if policy == PolicyFirst {
		return First{}
	}
	if seed != 0 {
		return NewSeeded(seed)
	}
	return NewRandom()
}

// Placement policy names.
const (
	PolicyRandom = "random"
	PolicyFirst  = "first"
)
