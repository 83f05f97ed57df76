package elementwise

import (
	"math/rand"
	"testing"

	"github.com/gkernels/pointwise/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestSum_MatchesReference(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()
	dev := cache.Device()

	sizes := []int{1, 128, BlockSize, BlockSize + 1, 4 * BlockSize}
	rng := rand.New(rand.NewSource(3))

	for _, n := range sizes {
		host := make([]float64, n)
		for i := range host {
			host[i] = rng.NormFloat64()
		}

		x := tensor.FromFloat64(dev, host)
		got, err := Sum(cache, x)
		x.Free()
		require.NoErrorf(t, err, "n=%d", n)

		// Tree reduction reorders the additions, so allow rounding slack
		assert.InDeltaf(t, floats.Sum(host), got, 1e-9, "n=%d", n)
	}
}

func TestSum_Zeros(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()

	x := tensor.Zeros(cache.Device(), tensor.Float32, 128)
	defer x.Free()

	got, err := Sum(cache, x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestSum_Float32(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()
	dev := cache.Device()

	n := BlockSize + 7
	host := make([]float32, n)
	expected := 0.0
	for i := range host {
		host[i] = float32(i%17) * 0.25
		expected += float64(host[i])
	}

	x := tensor.FromFloat32(dev, host)
	defer x.Free()

	got, err := Sum(cache, x)
	require.NoError(t, err)
	assert.InDelta(t, expected, got, 1e-3)
}

func TestSum_NonContiguousPanics(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()

	dense := tensor.Zeros(cache.Device(), tensor.Float32, 16)
	defer dense.Free()
	strided := dense.AsStrided([]int{8}, []int{2})

	require.Panics(t, func() { Sum(cache, strided) })
}

func TestSum_ReusesCompiledKernel(t *testing.T) {
	cache, cleanup := newTestCache(t)
	defer cleanup()
	dev := cache.Device()

	x := tensor.Zeros(dev, tensor.Float64, 64)
	defer x.Free()

	_, err := Sum(cache, x)
	require.NoError(t, err)
	_, err = Sum(cache, x)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Builds())
	assert.Equal(t, 1, cache.Hits())
}
