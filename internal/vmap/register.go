package vmap

import (
	"github.com/pkg/errors"

	"github.com/born-ml/vmap/internal/rng"
	"github.com/born-ml/vmap/internal/tensor"
)

// ruleKind selects which batching rule and argument adapter serve an
// operator. The set is closed: every covered operator is one of these.
type ruleKind int

const (
	shapeRule        ruleKind = iota // shape-first signature
	randIntRule                      // one bound, then shape
	randIntRangeRule                 // two bounds, then shape
	inplaceRule                      // mutates a target tensor
	permRule                         // permutation length, loop + stack
)

// randomOps is the registration list of intercepted operators. It is the
// single auditable source of coverage: one loop below installs both the base
// kernel and the vmap-mode batching rule for each entry.
var randomOps = []struct {
	name     string
	overload string
	kind     ruleKind
}{
	{"randn", "", shapeRule},
	{"rand", "", shapeRule},
	{"randint", "", randIntRule},
	{"randint", "low", randIntRangeRule},
	{"randperm", "", permRule},
	{"random_", "", inplaceRule},
	{"random_", "to", inplaceRule},
	{"random_", "from", inplaceRule},
	{"normal_", "", inplaceRule},
}

var defaultTable = newTable()

func init() {
	for _, op := range randomOps {
		key := opKey{Name: op.name, Overload: op.overload}
		switch op.kind {
		case shapeRule, randIntRule, randIntRangeRule:
			defaultTable.register(keyBase, key, baseShapeKernel(key, op.kind))
			defaultTable.register(keyVmapMode, key, randomBatchingRule)
		case inplaceRule:
			defaultTable.register(keyBase, key, baseInplaceKernel(key))
			defaultTable.register(keyVmapMode, key, randomInplaceBatchingRule)
		case permRule:
			defaultTable.register(keyBase, key, basePermKernel())
			defaultTable.register(keyVmapMode, key, randpermBatchingRule)
		}
	}
}

// shapeFn is the uniform shape-first signature the batching rule expects.
type shapeFn func(g *rng.Generator, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error)

// randIntAdapter repackages the single-bound integer-range signature
// ("bound first, then shape") into shape-first form. Pure argument
// forwarding, no policy logic.
func randIntAdapter(high int64) shapeFn {
	return func(g *rng.Generator, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error) {
		return tensor.RandInt(g, high, shape, dtype, device)
	}
}

// randIntRangeAdapter repackages the two-bound integer-range signature into
// shape-first form. Pure argument forwarding, no policy logic.
func randIntRangeAdapter(low, high int64) shapeFn {
	return func(g *rng.Generator, shape tensor.Shape, dtype tensor.DataType, device tensor.Device) (*tensor.RawTensor, error) {
		return tensor.RandIntRange(g, low, high, shape, dtype, device)
	}
}

// shapeFnFor resolves the shape-first kernel serving a call, applying the
// bounded-integer adapters where the native signature differs.
func shapeFnFor(key opKey, kind ruleKind, c *call) (shapeFn, error) {
	switch kind {
	case randIntRule:
		return randIntAdapter(c.high), nil
	case randIntRangeRule:
		return randIntRangeAdapter(c.low, c.high), nil
	}
	switch key.Name {
	case "randn":
		return tensor.Randn, nil
	case "rand":
		return tensor.Rand, nil
	}
	return nil, errors.Errorf("vmap: no shape kernel for %q", key)
}

func baseShapeKernel(key opKey, kind ruleKind) kernel {
	return func(e *Env, c *call) (Tensor, error) {
		fn, err := shapeFnFor(key, kind, c)
		if err != nil {
			return Tensor{}, err
		}
		raw, err := fn(c.gen, c.shape, c.dtype, e.Backend().Device())
		if err != nil {
			return Tensor{}, err
		}
		return Wrap(raw), nil
	}
}

func baseInplaceKernel(key opKey) kernel {
	return func(e *Env, c *call) (Tensor, error) {
		raw := c.target.Raw()
		var err error
		switch key {
		case opKey{Name: "random_"}:
			err = tensor.FillRandom(c.gen, raw)
		case opKey{Name: "random_", Overload: "to"}:
			err = tensor.FillRandomTo(c.gen, raw, c.high)
		case opKey{Name: "random_", Overload: "from"}:
			err = tensor.FillRandomRange(c.gen, raw, c.low, c.high)
		case opKey{Name: "normal_"}:
			err = tensor.FillNormal(c.gen, raw, c.mean, c.std)
		default:
			err = errors.Errorf("vmap: no in-place kernel for %q", key)
		}
		if err != nil {
			return Tensor{}, err
		}
		return *c.target, nil
	}
}

func basePermKernel() kernel {
	return func(e *Env, c *call) (Tensor, error) {
		raw, err := tensor.Randperm(c.gen, c.n, e.Backend().Device())
		if err != nil {
			return Tensor{}, err
		}
		return Wrap(raw), nil
	}
}
