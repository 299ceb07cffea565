package vmap

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

// Randomness policy errors. Both are configuration/usage errors detected
// before any draw occurs; they are never retried.
var (
	// ErrRandomnessMode is returned when a random operation runs under a
	// layer whose randomness mode is RandomnessError.
	ErrRandomnessMode = errors.New(
		"vmap: called random operation while in randomness error mode; " +
			"use the 'same' or 'different' randomness modes, or perform the " +
			"random operation outside of vmap")

	// ErrUnsupportedInplaceRandomness is returned when 'different' in-place
	// randomness is requested on an unbatched tensor. Without a per-element
	// layout the result would silently look like 'same' randomness, so this
	// is surfaced as a hard error rather than emulated.
	ErrUnsupportedInplaceRandomness = errors.New(
		"vmap: cannot ask for different in-place randomness on an unbatched tensor")
)

// checkRandomness rejects the default 'error' mode.
func checkRandomness(mode Randomness) error {
	if mode == RandomnessError {
		return ErrRandomnessMode
	}
	return nil
}

// randomBatchingRule is the decision procedure for shape-taking random
// operators (randn, rand and the randint family, after adapter rewriting).
//
// Under 'different' the requested shape gains a leading batch dimension and
// the result is tagged as batched at dimension 0; under 'same' a single
// unbatched draw is produced and shared by every simulated element.
func randomBatchingRule(e *Env, c *call) (Tensor, error) {
	restore := e.excludeVmapMode()
	defer restore()

	layer := e.Current()
	if err := checkRandomness(layer.Randomness()); err != nil {
		return Tensor{}, errors.Wrapf(err, "%s", c.op)
	}

	if layer.Randomness() == RandomnessDifferent {
		expanded := *c
		expanded.shape = c.shape.Prepend(layer.BatchSize())
		res, err := e.dispatch(&expanded)
		if err != nil {
			return Tensor{}, err
		}
		return MakeBatched(res.Raw(), 0, layer.ID()), nil
	}

	// Same: one draw, observed identically by every batch element.
	return e.dispatch(c)
}

// randomInplaceBatchingRule is the decision procedure for in-place random
// operators (random_ and its bounded overloads, normal_). The target is
// mutated and the original handle returned.
func randomInplaceBatchingRule(e *Env, c *call) (Tensor, error) {
	restore := e.excludeVmapMode()
	defer restore()

	layer := e.Current()
	value, bdim := unwrapAtLevel(*c.target, layer.ID())
	if err := checkRandomness(layer.Randomness()); err != nil {
		return Tensor{}, errors.Wrapf(err, "%s", c.op)
	}
	if layer.Randomness() == RandomnessDifferent && bdim < 0 {
		return Tensor{}, errors.Wrapf(ErrUnsupportedInplaceRandomness, "%s", c.op)
	}

	if layer.Randomness() == RandomnessSame && bdim >= 0 {
		// One unbatched draw, replicated into every batch slice so that
		// all simulated elements observe bit-identical values.
		scratch, err := tensor.NewRaw(value.Shape().Delete(bdim), value.DType(), value.Device())
		if err != nil {
			return Tensor{}, errors.Wrapf(err, "%s", c.op)
		}
		if _, err := e.dispatchInplaceOn(c, scratch); err != nil {
			return Tensor{}, err
		}
		if err := e.backend.ReplicateAlong(value, scratch, bdim); err != nil {
			return Tensor{}, errors.Wrapf(err, "%s", c.op)
		}
		return *c.target, nil
	}

	// Same with unbatched target, or different with batched target: one draw
	// per physical element is already correct. The fill is elementwise, so
	// the batch dimension's position does not matter.
	if _, err := e.dispatchInplaceOn(c, value); err != nil {
		return Tensor{}, err
	}
	return *c.target, nil
}

// dispatchInplaceOn re-dispatches an in-place call against raw, leaving the
// original call untouched.
func (e *Env) dispatchInplaceOn(c *call, raw *tensor.RawTensor) (Tensor, error) {
	nested := *c
	target := Wrap(raw)
	nested.target = &target
	return e.dispatch(&nested)
}

// randpermBatchingRule is the decision procedure for randperm. There is no
// batched permutation primitive, so 'different' runs the real operator once
// per batch element and stacks the results along a new leading dimension.
func randpermBatchingRule(e *Env, c *call) (Tensor, error) {
	restore := e.excludeVmapMode()
	defer restore()

	layer := e.Current()
	if err := checkRandomness(layer.Randomness()); err != nil {
		return Tensor{}, errors.Wrapf(err, "%s", c.op)
	}

	if layer.Randomness() == RandomnessDifferent {
		// Strictly sequential: each call advances the shared generator
		// state that the next call draws from.
		perms := make([]*tensor.RawTensor, layer.BatchSize())
		for i := range perms {
			res, err := e.dispatch(c)
			if err != nil {
				return Tensor{}, err
			}
			perms[i] = res.Raw()
		}
		stacked, err := e.backend.Stack(perms, 0)
		if err != nil {
			return Tensor{}, errors.Wrapf(err, "%s", c.op)
		}
		return MakeBatched(stacked, 0, layer.ID()), nil
	}

	return e.dispatch(c)
}
