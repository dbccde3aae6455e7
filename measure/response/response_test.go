package response

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/internal/testutil"
)

type gainProcessor struct {
	gain float64
}

func (g *gainProcessor) ProcessSample(input float64) float64 {
	return input * g.gain
}

func TestCaptureImpulseValidation(t *testing.T) {
	if _, err := CaptureImpulse(nil, 16); err == nil {
		t.Fatal("expected error for nil processor")
	}
	if _, err := CaptureImpulse(&gainProcessor{gain: 1}, 0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestCaptureImpulsePassThrough(t *testing.T) {
	ir, err := CaptureImpulse(&gainProcessor{gain: 0.5}, 8)
	if err != nil {
		t.Fatal(err)
	}

	want := testutil.Impulse(8, 0)
	for i := range want {
		want[i] *= 0.5
	}
	testutil.RequireSliceNearlyEqual(t, ir, want, 0)
}

func TestMagnitudeSpectrumValidation(t *testing.T) {
	if _, err := MagnitudeSpectrum(nil, 64); err == nil {
		t.Fatal("expected error for empty signal")
	}
	if _, err := MagnitudeSpectrum(make([]float64, 100), 64); err == nil {
		t.Fatal("expected error for fft size below signal length")
	}
	if _, err := MagnitudeSpectrum(make([]float64, 50), 100); err == nil {
		t.Fatal("expected error for non-power-of-two fft size")
	}
}

func TestImpulseSpectrumIsFlat(t *testing.T) {
	spec, err := MagnitudeSpectrum(testutil.Impulse(64, 0), 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec) != 33 {
		t.Fatalf("bin count = %d, want 33", len(spec))
	}
	for i, m := range spec {
		if math.Abs(m-1) > 1e-9 {
			t.Fatalf("bin %d magnitude %v, want 1", i, m)
		}
	}
}

func TestSineSpectrumPeaksAtFrequency(t *testing.T) {
	const (
		sampleRate = 48000.0
		fftSize    = 4096
	)
	// Bin-centered frequency avoids leakage.
	freq := BinFrequency(256, fftSize, sampleRate)

	sig := testutil.DeterministicSine(freq, sampleRate, 1.0, fftSize)
	spec, err := WindowedMagnitudeSpectrum(sig, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	peakBin := 0
	for i, m := range spec {
		if m > spec[peakBin] {
			peakBin = i
		}
	}
	if peakBin != 256 {
		t.Fatalf("spectrum peak at bin %d, want 256", peakBin)
	}
}

func TestLowPassMagnitudeOrdering(t *testing.T) {
	const (
		sampleRate = 48000.0
		fftSize    = 8192
	)

	f, err := biquad.New(biquad.LowPass, 1000/sampleRate, 0.707, 0)
	if err != nil {
		t.Fatal(err)
	}

	ir, err := CaptureImpulse(f, fftSize)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := MagnitudeSpectrum(ir, fftSize)
	if err != nil {
		t.Fatal(err)
	}

	// Magnitudes at increasing frequencies above the cutoff must fall
	// monotonically.
	freqs := []float64{500, 1000, 2000, 4000, 8000, 16000}
	mags := make([]float64, len(freqs))
	for i, fr := range freqs {
		mags[i], err = MagnitudeAt(spec, fr, sampleRate, fftSize)
		if err != nil {
			t.Fatal(err)
		}
	}

	for i := 1; i < len(mags); i++ {
		if mags[i] >= mags[i-1] {
			t.Fatalf("magnitude at %g Hz (%v) not below %g Hz (%v)",
				freqs[i], mags[i], freqs[i-1], mags[i-1])
		}
	}

	// And the passband sits at unity.
	passband, err := MagnitudeAt(spec, 100, sampleRate, fftSize)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(passband-1) > 0.01 {
		t.Fatalf("passband magnitude %v, want ~1", passband)
	}
}

func TestMagnitudeAtValidation(t *testing.T) {
	spec := []float64{1, 1, 1}
	if _, err := MagnitudeAt(nil, 100, 48000, 64); err == nil {
		t.Fatal("expected error for empty spectrum")
	}
	if _, err := MagnitudeAt(spec, -1, 48000, 64); err == nil {
		t.Fatal("expected error for negative frequency")
	}
	if _, err := MagnitudeAt(spec, 30000, 48000, 64); err == nil {
		t.Fatal("expected error for frequency above Nyquist")
	}
}
