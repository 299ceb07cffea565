// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package rng provides the public API for the seeded generator threaded
// through random tensor operations.
package rng

import (
	"github.com/born-ml/vmap/internal/rng"
)

// Generator is a deterministic, seedable source of random draws.
// It is not safe for concurrent use.
type Generator = rng.Generator

// New creates a generator from a fixed seed. The same seed always yields
// the same sequence of draws.
func New(seed uint64) *Generator {
	return rng.New(seed)
}
