package domain

import "math/rand"

// Randomizer is the source of the impostor and word draws.
type Randomizer interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

type mathRandomizer struct{}

func (mathRandomizer) Intn(n int) int {
	return rand.Intn(n)
}

// DefaultRandomizer draws from math/rand's global source.
var DefaultRandomizer Randomizer = mathRandomizer{}
