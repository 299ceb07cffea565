// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package vmap provides the public API for the vmap transform's random
// operation batching.
//
// # Overview
//
// Code running underneath a vmap transform layer must decide what a random
// operation means: one shared draw for every simulated batch element
// ("same"), an independent draw per element ("different"), or a hard error
// ("error", the default). This package intercepts the covered random
// operators and applies that policy.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/vmap/backend/cpu"
//	    "github.com/born-ml/vmap/rng"
//	    "github.com/born-ml/vmap/tensor"
//	    "github.com/born-ml/vmap/vmap"
//	)
//
//	func main() {
//	    env := vmap.NewEnv(cpu.New())
//	    g := rng.New(42)
//
//	    env.Push(3, vmap.RandomnessDifferent)
//	    out, err := env.Rand(g, tensor.Shape{4, 4}, tensor.Float32)
//	    // out is batched at dim 0 with shape [3 4 4]
//	    env.Pop()
//	}
//
// # Covered operators
//
// randn, rand, randint (and its two-bound overload), randperm, and the
// in-place fills random_ (plain, bounded and range overloads) and normal_.
// Calls made with no active layer fall through to the real kernels
// unchanged.
package vmap

import (
	internalvmap "github.com/born-ml/vmap/internal/vmap"
	"github.com/born-ml/vmap/tensor"
)

// Randomness is the policy governing batched random draws.
type Randomness = internalvmap.Randomness

// Randomness modes.
const (
	// RandomnessError rejects random operations under vmap. The default.
	RandomnessError Randomness = internalvmap.RandomnessError
	// RandomnessSame produces one draw shared by every batch element.
	RandomnessSame Randomness = internalvmap.RandomnessSame
	// RandomnessDifferent produces an independent draw per batch element.
	RandomnessDifferent Randomness = internalvmap.RandomnessDifferent
)

// Policy errors, matchable with errors.Is.
var (
	// ErrRandomnessMode is returned when a random operation runs under a
	// layer in RandomnessError mode.
	ErrRandomnessMode = internalvmap.ErrRandomnessMode
	// ErrUnsupportedInplaceRandomness is returned when 'different' in-place
	// randomness is requested on an unbatched tensor.
	ErrUnsupportedInplaceRandomness = internalvmap.ErrUnsupportedInplaceRandomness
)

// Env is the explicit execution context for vmap-transformed code.
type Env = internalvmap.Env

// Layer is one nesting level of an active vmap transform.
type Layer = internalvmap.Layer

// LayerID identifies the transform layer that owns a batched tensor.
type LayerID = internalvmap.LayerID

// Tensor is the operand and result type of vmap-dispatched operations.
type Tensor = internalvmap.Tensor

// NewEnv creates an execution context using the given backend.
func NewEnv(backend tensor.Backend) *Env {
	return internalvmap.NewEnv(backend)
}

// Wrap returns an unbatched Tensor around raw.
func Wrap(raw *tensor.RawTensor) Tensor {
	return internalvmap.Wrap(raw)
}

// MakeBatched tags raw as batched at dimension bdim, owned by level.
func MakeBatched(raw *tensor.RawTensor, bdim int, level LayerID) Tensor {
	return internalvmap.MakeBatched(raw, bdim, level)
}
