package vmap

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/rng"
	"github.com/born-ml/vmap/internal/tensor"
)

// Typed entry points for the covered random operators. Each marshals its
// arguments into a dispatch call; routing between the base kernel and the
// vmap-mode batching rule happens in dispatch.

// Randn draws from the standard normal distribution into a tensor of the
// requested shape.
func (e *Env) Randn(g *rng.Generator, shape tensor.Shape, dtype tensor.DataType) (Tensor, error) {
	return e.dispatch(&call{op: opKey{Name: "randn"}, gen: g, shape: shape, dtype: dtype})
}

// Rand draws uniformly from [0, 1) into a tensor of the requested shape.
func (e *Env) Rand(g *rng.Generator, shape tensor.Shape, dtype tensor.DataType) (Tensor, error) {
	return e.dispatch(&call{op: opKey{Name: "rand"}, gen: g, shape: shape, dtype: dtype})
}

// RandInt draws uniform integers from [0, high) into a tensor of the
// requested shape.
func (e *Env) RandInt(g *rng.Generator, high int64, shape tensor.Shape, dtype tensor.DataType) (Tensor, error) {
	return e.dispatch(&call{op: opKey{Name: "randint"}, gen: g, high: high, shape: shape, dtype: dtype})
}

// RandIntRange draws uniform integers from [low, high) into a tensor of the
// requested shape.
func (e *Env) RandIntRange(g *rng.Generator, low, high int64, shape tensor.Shape, dtype tensor.DataType) (Tensor, error) {
	return e.dispatch(&call{
		op: opKey{Name: "randint", Overload: "low"},
		gen: g, low: low, high: high, shape: shape, dtype: dtype,
	})
}

// Randperm draws a random permutation of the integers [0, n).
func (e *Env) Randperm(g *rng.Generator, n int64) (Tensor, error) {
	return e.dispatch(&call{op: opKey{Name: "randperm"}, gen: g, n: n})
}

// dispatchInplace guards the in-place entry points against a missing target.
func (e *Env) dispatchInplace(c *call) (Tensor, error) {
	if c.target == nil || c.target.Raw() == nil {
		return Tensor{}, errors.Errorf("vmap: %q requires a target tensor", c.op)
	}
	return e.dispatch(c)
}

// FillRandom fills target in place with uniform integers over the dtype's
// default range and returns the same handle.
func (e *Env) FillRandom(g *rng.Generator, target *Tensor) (Tensor, error) {
	return e.dispatchInplace(&call{op: opKey{Name: "random_"}, gen: g, target: target})
}

// FillRandomTo fills target in place with uniform integers from [0, to).
func (e *Env) FillRandomTo(g *rng.Generator, target *Tensor, to int64) (Tensor, error) {
	return e.dispatchInplace(&call{op: opKey{Name: "random_", Overload: "to"}, gen: g, target: target, high: to})
}

// FillRandomRange fills target in place with uniform integers from
// [from, to).
func (e *Env) FillRandomRange(g *rng.Generator, target *Tensor, from, to int64) (Tensor, error) {
	return e.dispatchInplace(&call{
		op: opKey{Name: "random_", Overload: "from"},
		gen: g, target: target, low: from, high: to,
	})
}

// FillNormal fills target in place with draws from N(mean, std*std).
func (e *Env) FillNormal(g *rng.Generator, target *Tensor, mean, std float64) (Tensor, error) {
	return e.dispatchInplace(&call{op: opKey{Name: "normal_"}, gen: g, target: target, mean: mean, std: std})
}
