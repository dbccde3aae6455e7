//go:build !fastmath

package effects

import "math"

// mathPower2 computes 2^x using the standard library.
func mathPower2(x float64) float64 {
	return math.Pow(2, x)
}

// mathPower10 computes 10^x using the standard library.
func mathPower10(x float64) float64 {
	return math.Pow(10, x)
}
