package vmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/internal/backend/cpu"
	"github.com/born-ml/vmap/internal/rng"
	"github.com/born-ml/vmap/internal/tensor"
)

func newTestEnv(t *testing.T, batchSize int, mode Randomness) (*Env, *Layer) {
	t.Helper()
	e := NewEnv(cpu.New())
	layer, err := e.Push(batchSize, mode)
	require.NoError(t, err)
	return e, layer
}

// Shape-taking operators

func TestRandDifferentExpandsShape(t *testing.T) {
	e, layer := newTestEnv(t, 3, RandomnessDifferent)

	out, err := e.Rand(rng.New(1), tensor.Shape{4, 4}, tensor.Float32)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{3, 4, 4}))
	assert.True(t, out.Batched())
	assert.Equal(t, 0, out.BatchDim())
	assert.Equal(t, layer.ID(), out.Level())
}

func TestRandSameKeepsShape(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessSame)

	out, err := e.Rand(rng.New(1), tensor.Shape{4, 4}, tensor.Float32)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{4, 4}))
	assert.False(t, out.Batched())
}

func TestRandnErrorMode(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessError)

	_, err := e.Randn(rng.New(1), tensor.Shape{2}, tensor.Float32)
	assert.ErrorIs(t, err, ErrRandomnessMode)
}

func TestRandnErrorModeDrawsNothing(t *testing.T) {
	// Fail-fast: the generator must not be touched before the check fires.
	e, _ := newTestEnv(t, 3, RandomnessError)

	g := rng.New(99)
	_, err := e.Randn(g, tensor.Shape{2}, tensor.Float32)
	require.ErrorIs(t, err, ErrRandomnessMode)
	assert.Equal(t, rng.New(99).Float64(), g.Float64())
}

func TestRandnDifferentRowsAreIndependent(t *testing.T) {
	e, _ := newTestEnv(t, 2, RandomnessDifferent)

	out, err := e.Randn(rng.New(1), tensor.Shape{8}, tensor.Float64)
	require.NoError(t, err)

	data := out.Raw().AsFloat64()
	assert.NotEqual(t, data[:8], data[8:16], "batch elements should hold independent draws")
}

func TestRandSameMatchesUnbatchedDraw(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessSame)

	out, err := e.Rand(rng.New(42), tensor.Shape{5}, tensor.Float64)
	require.NoError(t, err)

	direct, err := tensor.Rand(rng.New(42), tensor.Shape{5}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, direct.AsFloat64(), out.Raw().AsFloat64())
}

func TestRandIntDifferent(t *testing.T) {
	e, _ := newTestEnv(t, 4, RandomnessDifferent)

	out, err := e.RandInt(rng.New(1), 10, tensor.Shape{2, 3}, tensor.Int64)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{4, 2, 3}))
	assert.True(t, out.Batched())

	for _, v := range out.Raw().AsInt64() {
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(10))
	}
}

func TestRandIntRangeSame(t *testing.T) {
	e, _ := newTestEnv(t, 4, RandomnessSame)

	out, err := e.RandIntRange(rng.New(1), 5, 8, tensor.Shape{6}, tensor.Int32)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{6}))
	assert.False(t, out.Batched())

	for _, v := range out.Raw().AsInt32() {
		require.GreaterOrEqual(t, v, int32(5))
		require.Less(t, v, int32(8))
	}
}

func TestRandIntErrorMode(t *testing.T) {
	e, _ := newTestEnv(t, 4, RandomnessError)

	_, err := e.RandInt(rng.New(1), 10, tensor.Shape{2}, tensor.Int64)
	assert.ErrorIs(t, err, ErrRandomnessMode)
	_, err = e.RandIntRange(rng.New(1), 0, 10, tensor.Shape{2}, tensor.Int64)
	assert.ErrorIs(t, err, ErrRandomnessMode)
}

// randperm

func TestRandpermDifferent(t *testing.T) {
	const batch, n = 4, 6
	e, layer := newTestEnv(t, batch, RandomnessDifferent)

	out, err := e.Randperm(rng.New(7), n)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{batch, n}))
	assert.True(t, out.Batched())
	assert.Equal(t, 0, out.BatchDim())
	assert.Equal(t, layer.ID(), out.Level())

	data := out.Raw().AsInt64()
	for b := 0; b < batch; b++ {
		assertPermutation(t, data[b*n:(b+1)*n])
	}
}

func TestRandpermDifferentIsSequentialAndSeeded(t *testing.T) {
	const batch, n = 4, 6
	e, _ := newTestEnv(t, batch, RandomnessDifferent)

	out, err := e.Randperm(rng.New(7), n)
	require.NoError(t, err)

	// The loop must consume the generator left to right: row i equals the
	// i-th direct draw from a generator with the same seed.
	g := rng.New(7)
	data := out.Raw().AsInt64()
	for b := 0; b < batch; b++ {
		direct, err := tensor.Randperm(g, n, tensor.CPU)
		require.NoError(t, err)
		assert.Equal(t, direct.AsInt64(), data[b*n:(b+1)*n], "row %d", b)
	}

	// And the whole draw is reproducible from the seed.
	e2, _ := newTestEnv(t, batch, RandomnessDifferent)
	out2, err := e2.Randperm(rng.New(7), n)
	require.NoError(t, err)
	assert.Equal(t, data, out2.Raw().AsInt64())
}

func TestRandpermSame(t *testing.T) {
	e, _ := newTestEnv(t, 4, RandomnessSame)

	out, err := e.Randperm(rng.New(7), 6)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{6}))
	assert.False(t, out.Batched())
	assertPermutation(t, out.Raw().AsInt64())
}

func TestRandpermErrorMode(t *testing.T) {
	e, _ := newTestEnv(t, 4, RandomnessError)
	_, err := e.Randperm(rng.New(7), 6)
	assert.ErrorIs(t, err, ErrRandomnessMode)
}

// In-place operators

func TestInplaceDifferentUnbatchedFails(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessDifferent)

	raw, err := tensor.NewRaw(tensor.Shape{4}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	target := Wrap(raw)

	_, err = e.FillRandom(rng.New(1), &target)
	assert.ErrorIs(t, err, ErrUnsupportedInplaceRandomness)

	_, err = e.FillNormal(rng.New(1), &target, 0, 1)
	assert.ErrorIs(t, err, ErrUnsupportedInplaceRandomness)
}

func TestInplaceSameBatchedBroadcasts(t *testing.T) {
	const batch, n = 3, 4
	e, layer := newTestEnv(t, batch, RandomnessSame)

	raw, err := tensor.NewRaw(tensor.Shape{batch, n}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := MakeBatched(raw, 0, layer.ID())

	out, err := e.FillNormal(rng.New(1), &target, 0, 1)
	require.NoError(t, err)
	assert.Same(t, raw, out.Raw(), "in-place op must return the original handle")

	data := raw.AsFloat64()
	for b := 1; b < batch; b++ {
		assert.Equal(t, data[:n], data[b*n:(b+1)*n], "slice %d should be bit-identical to slice 0", b)
	}
	assert.NotEqual(t, data[0], data[1], "within a slice the draws are still independent")
}

func TestInplaceSameBatchedInnerDim(t *testing.T) {
	// Batch dimension not at the front: every slice along dim 1 must still
	// observe the identical draw.
	const batch = 3
	e, layer := newTestEnv(t, batch, RandomnessSame)

	raw, err := tensor.NewRaw(tensor.Shape{4, batch}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := MakeBatched(raw, 1, layer.ID())

	_, err = e.FillNormal(rng.New(1), &target, 0, 1)
	require.NoError(t, err)

	data := raw.AsFloat64()
	for row := 0; row < 4; row++ {
		base := row * batch
		for b := 1; b < batch; b++ {
			assert.Equal(t, data[base], data[base+b], "row %d, batch element %d", row, b)
		}
	}
}

func TestInplaceDifferentBatchedFillsIndependently(t *testing.T) {
	const batch, n = 2, 8
	e, layer := newTestEnv(t, batch, RandomnessDifferent)

	raw, err := tensor.NewRaw(tensor.Shape{batch, n}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := MakeBatched(raw, 0, layer.ID())

	out, err := e.FillNormal(rng.New(1), &target, 0, 1)
	require.NoError(t, err)
	assert.Same(t, raw, out.Raw())

	data := raw.AsFloat64()
	assert.NotEqual(t, data[:n], data[n:], "batch elements should hold independent draws")
}

func TestInplaceSameUnbatchedFillsDirectly(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessSame)

	raw, err := tensor.NewRaw(tensor.Shape{100}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	target := Wrap(raw)

	out, err := e.FillRandomTo(rng.New(1), &target, 50)
	require.NoError(t, err)
	assert.Same(t, raw, out.Raw())

	nonZero := 0
	for _, v := range raw.AsInt64() {
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(50))
		if v != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 50, "fill should have touched the buffer")
}

func TestInplaceErrorMode(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessError)

	raw, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := Wrap(raw)

	g := rng.New(5)
	_, err = e.FillNormal(g, &target, 0, 1)
	require.ErrorIs(t, err, ErrRandomnessMode)

	// Fail-fast: neither the target nor the generator was touched.
	for _, v := range raw.AsFloat64() {
		require.Zero(t, v)
	}
	assert.Equal(t, rng.New(5).Float64(), g.Float64())
}

func TestInplaceRangeOverloads(t *testing.T) {
	const batch, n = 2, 5
	e, layer := newTestEnv(t, batch, RandomnessSame)

	raw, err := tensor.NewRaw(tensor.Shape{batch, n}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	target := MakeBatched(raw, 0, layer.ID())

	_, err = e.FillRandomRange(rng.New(1), &target, 100, 105)
	require.NoError(t, err)

	data := raw.AsInt64()
	assert.Equal(t, data[:n], data[n:], "same mode: slices identical")
	for _, v := range data {
		require.GreaterOrEqual(t, v, int64(100))
		require.Less(t, v, int64(105))
	}
}

// Layer interaction

func TestNoLayerFallsThrough(t *testing.T) {
	e := NewEnv(cpu.New())

	out, err := e.Rand(rng.New(1), tensor.Shape{4, 4}, tensor.Float32)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{4, 4}))
	assert.False(t, out.Batched())
}

func TestOuterLevelTensorIsUnbatchedHere(t *testing.T) {
	e := NewEnv(cpu.New())
	outer, err := e.Push(2, RandomnessDifferent)
	require.NoError(t, err)

	raw, err := tensor.NewRaw(tensor.Shape{2, 4}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := MakeBatched(raw, 0, outer.ID())

	// At the inner layer the outer-batched tensor carries no batch
	// annotation, so 'different' in-place randomness must be rejected.
	_, err = e.Push(3, RandomnessDifferent)
	require.NoError(t, err)
	_, err = e.FillNormal(rng.New(1), &target, 0, 1)
	assert.ErrorIs(t, err, ErrUnsupportedInplaceRandomness)
}

func TestPopRestoresOuterLayer(t *testing.T) {
	e := NewEnv(cpu.New())
	outer, err := e.Push(2, RandomnessSame)
	require.NoError(t, err)
	inner, err := e.Push(3, RandomnessDifferent)
	require.NoError(t, err)

	assert.Equal(t, inner, e.Current())
	assert.Equal(t, inner, e.Pop())
	assert.Equal(t, outer, e.Current())

	out, err := e.Rand(rng.New(1), tensor.Shape{2}, tensor.Float32)
	require.NoError(t, err)
	assert.False(t, out.Batched(), "outer layer is in same mode")
}

func TestPushRejectsBadBatchSize(t *testing.T) {
	e := NewEnv(cpu.New())
	_, err := e.Push(0, RandomnessSame)
	assert.Error(t, err)
}

// Materialization

func TestMaterializeMovesBatchDimFront(t *testing.T) {
	e, layer := newTestEnv(t, 3, RandomnessSame)

	raw, err := tensor.FromSlice([]int64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.CPU)
	require.NoError(t, err)
	batched := MakeBatched(raw, 1, layer.ID())

	out, err := e.Materialize(batched)
	require.NoError(t, err)
	require.True(t, out.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []int64{1, 4, 2, 5, 3, 6}, out.AsInt64())
}

func TestMaterializeUnbatched(t *testing.T) {
	e, _ := newTestEnv(t, 3, RandomnessSame)

	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)

	out, err := e.Materialize(Wrap(raw))
	require.NoError(t, err)
	assert.Same(t, raw, out)
}

func assertPermutation(t *testing.T, data []int64) {
	t.Helper()
	seen := make([]bool, len(data))
	for _, v := range data {
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(len(data)))
		require.False(t, seen[v], "value %d repeated", v)
		seen[v] = true
	}
}
