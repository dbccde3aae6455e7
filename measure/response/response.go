// Package response captures impulse responses from sample processors and
// evaluates their magnitude spectra.
package response

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-fx/dsp/spectrum"
	"github.com/cwbudde/algo-fx/dsp/window"
)

// SampleProcessor is any mono per-sample processor.
type SampleProcessor interface {
	ProcessSample(input float64) float64
}

// CaptureImpulse feeds a unit impulse into p and records n output samples.
func CaptureImpulse(p SampleProcessor, n int) ([]float64, error) {
	if p == nil {
		return nil, fmt.Errorf("response capture requires a processor")
	}
	if n <= 0 {
		return nil, fmt.Errorf("response capture length must be > 0: %d", n)
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(1)
	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}
	return out, nil
}

// MagnitudeSpectrum returns |X[k]| for the non-negative frequency bins
// [0..fftSize/2] of the zero-padded signal. fftSize must be a power of two
// no smaller than the signal.
func MagnitudeSpectrum(signal []float64, fftSize int) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("magnitude spectrum requires a non-empty signal")
	}
	if fftSize < len(signal) || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= signal length %d: %d",
			len(signal), fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	in := make([]complex128, fftSize)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, err
	}

	return spectrum.Magnitude(out[:fftSize/2+1]), nil
}

// WindowedMagnitudeSpectrum applies a Hann window before the transform,
// for spectra of steady-state signals rather than decaying impulse
// responses.
func WindowedMagnitudeSpectrum(signal []float64, fftSize int) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("magnitude spectrum requires a non-empty signal")
	}

	windowed := append([]float64(nil), signal...)
	window.Apply(window.TypeHann, windowed)
	return MagnitudeSpectrum(windowed, fftSize)
}

// BinFrequency returns the center frequency in Hz of FFT bin k.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftSize)
}

// MagnitudeAt returns the magnitude of the bin nearest freqHz. spectrum
// must hold the non-negative frequency bins of an fftSize transform.
func MagnitudeAt(spec []float64, freqHz, sampleRate float64, fftSize int) (float64, error) {
	if len(spec) == 0 {
		return 0, fmt.Errorf("magnitude lookup requires a non-empty spectrum")
	}
	if sampleRate <= 0 || fftSize <= 0 {
		return 0, fmt.Errorf("magnitude lookup requires positive sample rate and fft size")
	}
	if freqHz < 0 || freqHz > sampleRate/2 {
		return 0, fmt.Errorf("frequency %g Hz outside [0, %g]", freqHz, sampleRate/2)
	}

	bin := int(math.Round(freqHz / sampleRate * float64(fftSize)))
	if bin >= len(spec) {
		bin = len(spec) - 1
	}
	return spec[bin], nil
}
