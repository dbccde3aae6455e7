//go:build !fastmath

package dynamics

import "math"

// mathExp computes e^x using the standard library.
func mathExp(x float64) float64 {
	return math.Exp(x)
}

// mathLog10 computes log10(x) using the standard library.
func mathLog10(x float64) float64 {
	return math.Log10(x)
}

// mathPower10 computes 10^x using the standard library.
func mathPower10(x float64) float64 {
	return math.Pow(10, x)
}
