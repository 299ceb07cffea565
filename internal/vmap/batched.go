package vmap

import (
	"fmt"

	"github.com/born-ml/vmap/internal/tensor"
)

// Tensor is the operand and result type of vmap-dispatched operations: a raw
// tensor plus an optional batch annotation. A batched tensor records which
// dimension simulates the batch and which transform layer owns it; the
// surrounding vmap machinery strips or re-interprets the annotation when the
// layer is popped.
type Tensor struct {
	raw   *tensor.RawTensor
	bdim  int // batch dimension; < 0 means unbatched
	level LayerID
}

// Wrap returns an unbatched Tensor around raw.
func Wrap(raw *tensor.RawTensor) Tensor {
	return Tensor{raw: raw, bdim: -1}
}

// MakeBatched tags raw as batched at dimension bdim, owned by level.
func MakeBatched(raw *tensor.RawTensor, bdim int, level LayerID) Tensor {
	if bdim < 0 || bdim >= len(raw.Shape()) {
		panic(fmt.Sprintf("vmap: batch dimension %d out of range for shape %v", bdim, raw.Shape()))
	}
	return Tensor{raw: raw, bdim: bdim, level: level}
}

// Raw returns the underlying raw tensor.
func (t Tensor) Raw() *tensor.RawTensor {
	return t.raw
}

// Batched reports whether the tensor carries a batch annotation.
func (t Tensor) Batched() bool {
	return t.bdim >= 0
}

// BatchDim returns the annotated batch dimension, or -1 when unbatched.
func (t Tensor) BatchDim() int {
	return t.bdim
}

// Level returns the owning layer of a batched tensor.
// Meaningless when unbatched.
func (t Tensor) Level() LayerID {
	return t.level
}

// Shape returns the underlying tensor's physical shape.
func (t Tensor) Shape() tensor.Shape {
	return t.raw.Shape()
}

// String returns a human-readable representation of the tensor.
func (t Tensor) String() string {
	if !t.Batched() {
		return t.raw.String()
	}
	return fmt.Sprintf("Batched[dim=%d layer=%d] %s", t.bdim, t.level, t.raw)
}

// unwrapAtLevel strips the batch annotation when t is owned by level,
// returning the underlying raw tensor and its batch dimension. A tensor that
// is unbatched, or batched at a different (outer) level, is returned as
// plain input with bdim -1.
func unwrapAtLevel(t Tensor, level LayerID) (*tensor.RawTensor, int) {
	if t.Batched() && t.level == level {
		return t.raw, t.bdim
	}
	return t.raw, -1
}

// MoveBatchDimFront returns an equivalent batched tensor whose batch
// dimension has been materialized at position 0. Unbatched tensors and
// tensors already batched at 0 are returned unchanged.
func (e *Env) MoveBatchDimFront(t Tensor) (Tensor, error) {
	if !t.Batched() || t.bdim == 0 {
		return t, nil
	}
	moved, err := e.backend.MoveDim(t.raw, t.bdim, 0)
	if err != nil {
		return Tensor{}, err
	}
	return MakeBatched(moved, 0, t.level), nil
}

// Materialize strips the batch annotation from a result, returning a plain
// tensor with the batch dimension at the front. Used when the owning layer
// is popped.
func (e *Env) Materialize(t Tensor) (*tensor.RawTensor, error) {
	front, err := e.MoveBatchDimFront(t)
	if err != nil {
		return nil, err
	}
	return front.raw, nil
}
