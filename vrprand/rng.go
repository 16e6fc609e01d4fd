// Package vrprand centralizes deterministic random generation for the
// local-search driver.
//
// Goals:
//   - Determinism: same seed => identical shuffle order across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//   - Safety: no panics; math/rand.Rand is used directly, never the global source.
package vrprand

import "math/rand"

// defaultSeed is the fixed "zero" seed used when callers pass seed==0.
const defaultSeed int64 = 1

// Source wraps a *rand.Rand for the driver's exclusive, single-threaded use.
// Not safe for concurrent access (mirrors math/rand.Rand itself).
type Source struct {
	rng *rand.Rand
}

// New returns a deterministic Source. Policy: seed==0 => use defaultSeed;
// otherwise use the provided seed verbatim.
// Complexity: O(1).
func New(seed int64) *Source {
	s := seed
	if s == 0 {
		s = defaultSeed
	}
	return &Source{rng: rand.New(rand.NewSource(s))}
}

// ShuffleInts permutes a slice of ints in place using Fisher-Yates.
// Complexity: O(n).
func (s *Source) ShuffleInts(xs []int) {
	s.rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}

// Intn returns a pseudo-random int in [0, n).
func (s *Source) Intn(n int) int { return s.rng.Intn(n) }

// Float64 returns a pseudo-random float64 in [0, 1).
func (s *Source) Float64() float64 { return s.rng.Float64() }
