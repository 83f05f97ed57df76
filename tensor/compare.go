package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AllClose reports whether a and b agree elementwise within an absolute
// or relative tolerance. Slices of different lengths never agree.
func AllClose(a, b []float64, atol, rtol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floats.EqualWithinAbsOrRel(a[i], b[i], atol, rtol) {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest elementwise absolute difference.
// Panics if the slices differ in length.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("tensor: MaxAbsDiff length mismatch")
	}
	maxDiff := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}
