// Package agent implements the buyer and seller negotiation agents: the
// LLM-backed text generators and the deterministic offer policy that
// drives the actual negotiation dynamics.
package agent

import (
	"math/rand"
	"time"
)

// Rand is the random source used by the offer policy. Tests supply a
// seeded source to pin exact outputs; production uses real entropy.
type Rand interface {
	Float64() float64
}

// NewRand returns a time-seeded random source.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeededRand returns a deterministic random source for tests.
func NewSeededRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}
