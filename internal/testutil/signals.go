package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz/sampleRate*n) for
// n in [0, length). The phase accumulates per sample, so renders of the
// same parameters are bit-identical across runs.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	inc := 2 * math.Pi * freqHz / sampleRate
	phase := 0.0
	for i := range out {
		out[i] = amplitude * math.Sin(phase)
		phase += inc
	}
	return out
}

// DeterministicNoise returns uniform noise in [-amplitude, amplitude]
// from a seeded source, so failures reproduce.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns a zero signal with a single unit sample at pos.
// Out-of-range positions yield silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if 0 <= pos && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a signal holding value at every sample.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
