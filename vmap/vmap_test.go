package vmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/vmap/backend/cpu"
	"github.com/born-ml/vmap/rng"
	"github.com/born-ml/vmap/tensor"
	"github.com/born-ml/vmap/vmap"
)

func TestBatchedRandThroughPublicAPI(t *testing.T) {
	env := vmap.NewEnv(cpu.New())
	layer, err := env.Push(3, vmap.RandomnessDifferent)
	require.NoError(t, err)

	out, err := env.Rand(rng.New(42), tensor.Shape{4, 4}, tensor.Float32)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{3, 4, 4}))
	assert.True(t, out.Batched())
	assert.Equal(t, layer.ID(), out.Level())

	env.Pop()
	plain, err := env.Rand(rng.New(42), tensor.Shape{4, 4}, tensor.Float32)
	require.NoError(t, err)
	assert.False(t, plain.Batched(), "after Pop the calls fall through")
}

func TestDefaultModeErrors(t *testing.T) {
	env := vmap.NewEnv(cpu.New())
	_, err := env.Push(3, vmap.RandomnessError)
	require.NoError(t, err)

	_, err = env.Randn(rng.New(1), tensor.Shape{2}, tensor.Float64)
	assert.ErrorIs(t, err, vmap.ErrRandomnessMode)
}

func TestInplaceFillThroughPublicAPI(t *testing.T) {
	env := vmap.NewEnv(cpu.New())
	layer, err := env.Push(2, vmap.RandomnessSame)
	require.NoError(t, err)

	raw, err := tensor.NewRaw(tensor.Shape{2, 5}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	target := vmap.MakeBatched(raw, 0, layer.ID())

	out, err := env.FillNormal(rng.New(7), &target, 0, 1)
	require.NoError(t, err)
	assert.Same(t, raw, out.Raw())

	data := raw.AsFloat64()
	assert.Equal(t, data[:5], data[5:], "same mode: both batch slices identical")
}
