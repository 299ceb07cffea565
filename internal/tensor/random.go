package tensor

import (
	"fmt"
	"math"

	"github.com/born-ml/vmap/internal/rng"
)

// This file holds the real (non-intercepted) random kernels. Every kernel
// takes an explicit generator: seed ownership stays with the caller, and a
// fixed seed reproduces the exact fill sequence.

// Randn creates a tensor filled with draws from the standard normal
// distribution N(0, 1). Float dtypes only.
func Randn(g *rng.Generator, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	raw, err := newFloatRaw("randn", shape, dtype, device)
	if err != nil {
		return nil, err
	}
	fillFloat(raw, func() float64 { return g.Norm(0, 1) })
	return raw, nil
}

// Rand creates a tensor filled with uniform draws from [0, 1).
// Float dtypes only.
func Rand(g *rng.Generator, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	raw, err := newFloatRaw("rand", shape, dtype, device)
	if err != nil {
		return nil, err
	}
	fillFloat(raw, g.Float64)
	return raw, nil
}

// RandInt creates a tensor filled with uniform integers from [0, high).
// Integer dtypes only.
func RandInt(g *rng.Generator, high int64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return RandIntRange(g, 0, high, shape, dtype, device)
}

// RandIntRange creates a tensor filled with uniform integers from [low, high).
// Integer dtypes only.
func RandIntRange(g *rng.Generator, low, high int64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if !dtype.IsInt() {
		return nil, fmt.Errorf("randint: integer dtype required, got %s", dtype)
	}
	if high <= low {
		return nil, fmt.Errorf("randint: empty range [%d, %d)", low, high)
	}
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("randint: %w", err)
	}
	fillInt(raw, func() int64 { return low + g.Int64n(high-low) })
	return raw, nil
}

// Randperm creates a 1-D Int64 tensor holding a random permutation of the
// integers [0, n).
func Randperm(g *rng.Generator, n int64, device Device) (*RawTensor, error) {
	if n < 0 {
		return nil, fmt.Errorf("randperm: n must be non-negative, got %d", n)
	}
	raw, err := NewRaw(Shape{int(n)}, Int64, device)
	if err != nil {
		return nil, fmt.Errorf("randperm: %w", err)
	}
	data := raw.AsInt64()
	for i, v := range g.Perm(int(n)) {
		data[i] = int64(v)
	}
	return raw, nil
}

// FillRandom fills t in place with uniform integers over the dtype's default
// discrete range: [0, 2^31-1) for int32, [0, 2^63-1) for int64, and the
// exactly-representable integers [0, 2^24) / [0, 2^53) for float32/float64.
func FillRandom(g *rng.Generator, t *RawTensor) error {
	switch t.DType() {
	case Int32:
		return FillRandomRange(g, t, 0, math.MaxInt32)
	case Int64:
		return FillRandomRange(g, t, 0, math.MaxInt64)
	case Float32:
		return FillRandomRange(g, t, 0, 1<<24)
	case Float64:
		return FillRandomRange(g, t, 0, 1<<53)
	default:
		return fmt.Errorf("random_: unsupported dtype %s", t.DType())
	}
}

// FillRandomTo fills t in place with uniform integers from [0, to).
func FillRandomTo(g *rng.Generator, t *RawTensor, to int64) error {
	return FillRandomRange(g, t, 0, to)
}

// FillRandomRange fills t in place with uniform integers from [from, to).
// The range must fit the target dtype: a bound outside the representable
// values would silently truncate on the narrowing cast.
func FillRandomRange(g *rng.Generator, t *RawTensor, from, to int64) error {
	if to <= from {
		return fmt.Errorf("random_: empty range [%d, %d)", from, to)
	}
	if t.DType() == Int32 && (from < math.MinInt32 || to > math.MaxInt32+1) {
		return fmt.Errorf("random_: range [%d, %d) exceeds int32 bounds", from, to)
	}
	if from < 0 && to > math.MaxInt64+from {
		return fmt.Errorf("random_: range [%d, %d) is wider than int64", from, to)
	}
	draw := func() int64 { return from + g.Int64n(to-from) }
	switch t.DType() {
	case Int32, Int64:
		fillInt(t, draw)
	case Float32, Float64:
		fillFloat(t, func() float64 { return float64(draw()) })
	default:
		return fmt.Errorf("random_: unsupported dtype %s", t.DType())
	}
	return nil
}

// FillNormal fills t in place with draws from N(mean, std*std).
// Float dtypes only.
func FillNormal(g *rng.Generator, t *RawTensor, mean, std float64) error {
	if !t.DType().IsFloat() {
		return fmt.Errorf("normal_: float dtype required, got %s", t.DType())
	}
	if std < 0 {
		return fmt.Errorf("normal_: std must be non-negative, got %v", std)
	}
	fillFloat(t, func() float64 { return g.Norm(mean, std) })
	return nil
}

func newFloatRaw(op string, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("%s: float dtype required, got %s", op, dtype)
	}
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// fillFloat writes one draw per element in linear buffer order.
func fillFloat(t *RawTensor, draw func() float64) {
	switch t.DType() {
	case Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(draw())
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = draw()
		}
	default:
		panic(fmt.Sprintf("fillFloat: dtype %s", t.DType()))
	}
}

// fillInt writes one draw per element in linear buffer order.
func fillInt(t *RawTensor, draw func() int64) {
	switch t.DType() {
	case Int32:
		data := t.AsInt32()
		for i := range data {
			data[i] = int32(draw())
		}
	case Int64:
		data := t.AsInt64()
		for i := range data {
			data[i] = draw()
		}
	default:
		panic(fmt.Sprintf("fillInt: dtype %s", t.DType()))
	}
}
