// Package rng provides the seeded random number generator threaded through
// the random tensor kernels.
//
// The generator is owned by the caller. The vmap machinery only forwards it;
// it never creates, seeds or resets one. A Generator is not safe for
// concurrent use: batched sampling loops rely on each draw observing the
// state advanced by the previous draw.
package rng

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Generator is a deterministic, seedable source of random draws.
type Generator struct {
	rnd *rand.Rand
}

// New creates a generator from a fixed seed. The same seed always yields the
// same sequence of draws.
func New(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// Float64 returns a uniform draw from [0, 1).
func (g *Generator) Float64() float64 {
	return g.rnd.Float64()
}

// Int64 returns a non-negative uniform draw over the int64 range.
func (g *Generator) Int64() int64 {
	return g.rnd.Int64()
}

// Int64n returns a uniform draw from [0, n). Panics if n <= 0.
func (g *Generator) Int64n(n int64) int64 {
	return g.rnd.Int64N(n)
}

// Norm returns a draw from the normal distribution with the given mean and
// standard deviation.
func (g *Generator) Norm(mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: std, Src: g.rnd}.Rand()
}

// Perm returns a random permutation of the integers [0, n).
func (g *Generator) Perm(n int) []int {
	return g.rnd.Perm(n)
}
