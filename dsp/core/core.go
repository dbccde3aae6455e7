// Package core holds the small numeric helpers shared by the delay and
// reverb primitives.
package core

import "math"

// DefaultMaxDelaySeconds is the buffer headroom a delay line allocates
// when the caller does not ask for a specific maximum.
const DefaultMaxDelaySeconds = 2.0

// denormalThreshold sits far above the float64 denormal range so the
// comparison itself stays cheap.
const denormalThreshold = 1e-30

// FlushDenormals rounds values near the denormal range to exact zero.
// Feedback loops call this on every write so a decaying tail cannot park
// the FPU in slow denormal arithmetic.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}
	return x
}

// Zero clears buf in place.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ConvertLength rescales a delay length tuned at oldRate to newRate,
// rounded to the nearest sample and never below one. Non-positive or
// equal rates return n untouched.
func ConvertLength(n int, oldRate, newRate float64) int {
	if oldRate <= 0 || newRate <= 0 || oldRate == newRate {
		return n
	}
	scaled := int(math.Round(float64(n) * newRate / oldRate))
	if scaled < 1 {
		return 1
	}
	return scaled
}
