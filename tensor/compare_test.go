package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllClose(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     []float64
		atol     float64
		rtol     float64
		expected bool
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1e-5, 1e-5, true},
		{"within_atol", []float64{0, 0}, []float64{1e-6, -1e-6}, 1e-5, 1e-5, true},
		{"within_rtol", []float64{1e6}, []float64{1e6 + 1}, 1e-5, 1e-5, true},
		{"beyond_both", []float64{1}, []float64{1.01}, 1e-5, 1e-5, false},
		{"length_mismatch", []float64{1, 2}, []float64{1}, 1e-5, 1e-5, false},
		{"empty", nil, nil, 1e-5, 1e-5, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AllClose(tc.a, tc.b, tc.atol, tc.rtol))
		})
	}
}

func TestMaxAbsDiff(t *testing.T) {
	assert.Equal(t, 0.0, MaxAbsDiff(nil, nil))
	assert.Equal(t, 0.5, MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 3.25}))
	assert.Equal(t, 2.0, MaxAbsDiff([]float64{-1}, []float64{1}))

	require.Panics(t, func() { MaxAbsDiff([]float64{1}, []float64{1, 2}) })
}
