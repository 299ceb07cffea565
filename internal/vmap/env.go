package vmap

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/tensor"
)

// Env is the explicit execution context for vmap-transformed code: the stack
// of active transform layers, the dispatch-key exclusion state, and the
// backend used for data movement. It replaces any ambient "current layer"
// lookup; every operation receives the Env it runs under.
//
// An Env is single-threaded: intercepted calls run to completion on the
// calling goroutine.
type Env struct {
	backend tensor.Backend
	layers  []*Layer
	nextID  LayerID

	// excludeDepth > 0 suspends vmap-mode interception, so the nested call
	// into a real kernel dispatches to the base implementation instead of
	// recursing into the same batching rule.
	excludeDepth int
}

// NewEnv creates an execution context using the given backend.
func NewEnv(backend tensor.Backend) *Env {
	return &Env{backend: backend, nextID: 1}
}

// Backend returns the data-movement backend.
func (e *Env) Backend() tensor.Backend {
	return e.backend
}

// Push enters a new innermost transform layer with the given batch size and
// randomness mode, and returns it.
func (e *Env) Push(batchSize int, mode Randomness) (*Layer, error) {
	if batchSize < 1 {
		return nil, errors.Errorf("vmap: batch size must be at least 1, got %d", batchSize)
	}
	l := &Layer{batchSize: batchSize, id: e.nextID, randomness: mode}
	e.nextID++
	e.layers = append(e.layers, l)
	return l, nil
}

// Pop exits the innermost transform layer and returns it.
// Returns nil when no layer is active.
func (e *Env) Pop() *Layer {
	if len(e.layers) == 0 {
		return nil
	}
	l := e.layers[len(e.layers)-1]
	e.layers = e.layers[:len(e.layers)-1]
	return l
}

// Current returns the innermost active layer, or nil when none is active.
func (e *Env) Current() *Layer {
	if len(e.layers) == 0 {
		return nil
	}
	return e.layers[len(e.layers)-1]
}

// excludeVmapMode suspends vmap-mode interception and returns a restore
// function that MUST be called on every exit path (use defer).
func (e *Env) excludeVmapMode() func() {
	e.excludeDepth++
	return func() {
		e.excludeDepth--
	}
}

// vmapModeActive reports whether calls should be routed to the vmap-mode
// kernels: a layer is active and interception is not suspended.
func (e *Env) vmapModeActive() bool {
	return len(e.layers) > 0 && e.excludeDepth == 0
}
