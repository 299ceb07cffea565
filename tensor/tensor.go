// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the tensor substrate used by
// the vmap transform: shapes, raw tensors and the real (non-intercepted)
// random kernels.
package tensor

import (
	"github.com/born-ml/vmap/internal/rng"
	"github.com/born-ml/vmap/internal/tensor"
)

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// Backend is the interface for device-specific data-movement operations.
type Backend = tensor.Backend

// Creation functions

// NewRaw creates a new zero-initialized raw tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Zeros(shape, dtype, device)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, tensor.CPU)
func FromSlice[T DType](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// Random kernels. These are the un-intercepted implementations; code running
// under a vmap transform should call them through the vmap package instead.

// Randn creates a tensor of normal draws N(0, 1).
func Randn(g *rng.Generator, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Randn(g, shape, dtype, device)
}

// Rand creates a tensor of uniform draws from [0, 1).
func Rand(g *rng.Generator, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Rand(g, shape, dtype, device)
}

// RandInt creates a tensor of uniform integers from [0, high).
func RandInt(g *rng.Generator, high int64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.RandInt(g, high, shape, dtype, device)
}

// RandIntRange creates a tensor of uniform integers from [low, high).
func RandIntRange(g *rng.Generator, low, high int64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.RandIntRange(g, low, high, shape, dtype, device)
}

// Randperm creates a 1-D Int64 tensor holding a random permutation of
// [0, n).
func Randperm(g *rng.Generator, n int64, device Device) (*RawTensor, error) {
	return tensor.Randperm(g, n, device)
}

// FillRandom fills t in place with uniform integers over the dtype's
// default range.
func FillRandom(g *rng.Generator, t *RawTensor) error {
	return tensor.FillRandom(g, t)
}

// FillRandomTo fills t in place with uniform integers from [0, to).
func FillRandomTo(g *rng.Generator, t *RawTensor, to int64) error {
	return tensor.FillRandomTo(g, t, to)
}

// FillRandomRange fills t in place with uniform integers from [from, to).
func FillRandomRange(g *rng.Generator, t *RawTensor, from, to int64) error {
	return tensor.FillRandomRange(g, t, from, to)
}

// FillNormal fills t in place with draws from N(mean, std*std).
func FillNormal(g *rng.Generator, t *RawTensor, mean, std float64) error {
	return tensor.FillNormal(g, t, mean, std)
}
