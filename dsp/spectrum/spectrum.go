// Package spectrum converts complex FFT output into magnitude, power, and
// phase representations.
package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Scratch for splitting complex bins into the planar layout the vector
// kernels want. Pooled so steady-state callers only allocate the output.
var splitPool = sync.Pool{
	New: func() any { return new([]float64) },
}

// vectorized runs a planar kernel over the real/imaginary parts of in.
func vectorized(in []complex128, kernel func(dst, re, im []float64)) []float64 {
	n := len(in)
	out := make([]float64, n)

	scratch := splitPool.Get().(*[]float64)
	if cap(*scratch) < 2*n {
		*scratch = make([]float64, 2*n)
	}
	re := (*scratch)[:n]
	im := (*scratch)[n : 2*n]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	kernel(out, re, im)
	splitPool.Put(scratch)
	return out
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	return vectorized(in, vecmath.Magnitude)
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst,
// the zero-allocation path for callers holding split real/imaginary parts.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	return vectorized(in, vecmath.Power)
}

// Phase returns arg(X[k]) in radians for each complex spectrum bin.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase removes the +/-2*pi jumps Phase introduces at the branch
// cut, returning a continuous phase curve.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	shift := 0.0
	for i := 1; i < len(phase); i++ {
		step := phase[i] - phase[i-1]
		if step > math.Pi {
			shift -= 2 * math.Pi
		} else if step < -math.Pi {
			shift += 2 * math.Pi
		}
		out[i] = phase[i] + shift
	}
	return out
}
