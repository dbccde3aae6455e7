// Package window provides the analysis windows used for spectral
// measurements.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a known window type.
func (t Type) Valid() bool {
	return t >= TypeRectangular && t <= TypeBlackman
}

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}
	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / float64(length-1)
		out[i] = eval(t, x)
	}
	return out
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeHamming:
		return 0.54 - 0.46*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}
	coeffs := Generate(t, len(buf))
	vecmath.MulBlockInPlace(buf, coeffs)
}

// CoherentGain returns the mean of the window coefficients, the factor by
// which a windowed sinusoid's spectral peak is scaled.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}
