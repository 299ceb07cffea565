package vmap

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/rng"
	"github.com/born-ml/vmap/internal/tensor"
)

// opKey identifies an operator and overload in the dispatch table,
// e.g. {"randint", "low"} for the two-bound randint overload.
type opKey struct {
	Name     string
	Overload string
}

func (k opKey) String() string {
	if k.Overload == "" {
		return k.Name
	}
	return k.Name + "." + k.Overload
}

// dispatchKey selects which kernel set serves a call.
type dispatchKey int

const (
	// keyBase routes to the real, non-intercepted kernels.
	keyBase dispatchKey = iota
	// keyVmapMode routes to the batching rules; active only while a vmap
	// layer is in effect and interception is not suspended.
	keyVmapMode
)

// call carries the marshaled arguments of one intercepted operator call.
// Each registered operator reads only the fields its signature declares.
type call struct {
	op    opKey
	gen   *rng.Generator
	dtype tensor.DataType

	shape     tensor.Shape // shape-taking operators
	n         int64        // randperm
	low, high int64        // integer bounds
	mean, std float64      // normal_
	target    *Tensor      // in-place operators
}

// kernel is one entry of the dispatch table. In-place kernels mutate
// call.target and return it; all others return a fresh result.
type kernel func(e *Env, c *call) (Tensor, error)

// table maps (dispatch key, operator) to a kernel.
type table struct {
	kernels map[dispatchKey]map[opKey]kernel
}

func newTable() *table {
	return &table{kernels: map[dispatchKey]map[opKey]kernel{
		keyBase:     {},
		keyVmapMode: {},
	}}
}

func (t *table) register(key dispatchKey, op opKey, fn kernel) {
	t.kernels[key][op] = fn
}

// dispatch routes a call: the vmap-mode kernel intercepts while a layer is
// active and not excluded, otherwise the call falls through to the base
// kernel (the unbatched path).
func (e *Env) dispatch(c *call) (Tensor, error) {
	if c.gen == nil {
		return Tensor{}, errors.Errorf("vmap: %q requires a generator", c.op)
	}
	if e.vmapModeActive() {
		if fn, ok := defaultTable.kernels[keyVmapMode][c.op]; ok {
			return fn(e, c)
		}
	}
	fn, ok := defaultTable.kernels[keyBase][c.op]
	if !ok {
		return Tensor{}, errors.Errorf("vmap: no kernel registered for %q", c.op)
	}
	return fn(e, c)
}
