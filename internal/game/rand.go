package game

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness source injected into challenge selection and
// team-member draws. Tests supply a seeded or scripted implementation to
// reproduce scenarios exactly.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a time-seeded source for production use.
func NewRand() Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
}
