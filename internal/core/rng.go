// internal/core/rng.go
// Seedable RNG, injectable per spec.md §6. Isolated so first-round shuffling,
// KotC seeding/team variety, and nothing else, consume randomness.

package core

import (
	"hash/fnv"
	"math/rand"
)

// RNG wraps a seeded PRNG stream. Not safe for concurrent use; callers
// operating through the Orchestrator are already serialized.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates an RNG from an explicit seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// SeedFromSessionID derives a deterministic seed from a session id so that
// two runs against equal session state produce equal output (§5 determinism).
func SeedFromSessionID(sessionID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sessionID))
	return int64(h.Sum64())
}

// NewSessionRNG builds the RNG seeded from a session's id.
func NewSessionRNG(session *Session) *RNG {
	return NewRNG(SeedFromSessionID(session.ID))
}

// Intn returns a pseudo-random int in [0,n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0,1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Shuffle randomizes the order of a slice of length n using swap.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// ShuffleStrings returns a shuffled copy of the input slice.
func (g *RNG) ShuffleStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	g.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
