package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

func runCompressorSine(t *testing.T, c *Compressor, amplitude float64, n int) (inRMS, outRMS float64) {
	t.Helper()
	in := testutil.DeterministicSine(1000, 44100, amplitude, n)
	out := make([]float64, n)
	for i, v := range in {
		out[i], _ = c.ProcessFrame(v, v)
	}
	half := n / 2
	return testutil.RMS(in[half:]), testutil.RMS(out[half:])
}

func TestNewCompressorValidation(t *testing.T) {
	if _, err := NewCompressor(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	c, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetParameters(-12, 0.5, 0.002, 0.03, false); err == nil {
		t.Fatal("expected error for ratio below 1")
	}
	if err := c.SetInputGainDB(40); err == nil {
		t.Fatal("expected error for input gain above range")
	}
	if err := c.SetMix(1.5); err == nil {
		t.Fatal("expected error for mix above range")
	}
}

func TestCompressorReducesLoudSignal(t *testing.T) {
	c, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetParameters(-20, 4, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}

	inRMS, outRMS := runCompressorSine(t, c, 1.0, 44100)
	if outRMS >= inRMS {
		t.Fatalf("loud signal not reduced: in %v, out %v", inRMS, outRMS)
	}
}

func TestCompressorPassesQuietSignal(t *testing.T) {
	c, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetParameters(-12, 4, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}

	inRMS, outRMS := runCompressorSine(t, c, 0.01, 44100)
	if math.Abs(outRMS-inRMS)/inRMS > 0.01 {
		t.Fatalf("quiet signal altered: in %v, out %v", inRMS, outRMS)
	}
}

func TestCompressorInputGainDrivesThreshold(t *testing.T) {
	// A quiet signal pushed over the threshold by input gain must be
	// compressed, proving the gain is applied before detection.
	quiet, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := quiet.SetParameters(-12, 10, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}

	boosted, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := boosted.SetParameters(-12, 10, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}
	if err := boosted.SetInputGainDB(24); err != nil {
		t.Fatal(err)
	}

	_, quietRMS := runCompressorSine(t, quiet, 0.05, 44100)
	_, boostedRMS := runCompressorSine(t, boosted, 0.05, 44100)

	// 24 dB of clean gain would multiply the level by ~15.8; compression
	// must hold it well below that.
	if ratio := boostedRMS / quietRMS; ratio > 8 {
		t.Fatalf("boosted/quiet RMS ratio %v, compression not engaging", ratio)
	}
}

func TestCompressorMakeupGain(t *testing.T) {
	flat, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := flat.SetParameters(-20, 4, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}

	madeUp, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := madeUp.SetParameters(-20, 4, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}
	if err := madeUp.SetMakeupGainDB(6); err != nil {
		t.Fatal(err)
	}

	_, flatRMS := runCompressorSine(t, flat, 1.0, 44100)
	_, madeUpRMS := runCompressorSine(t, madeUp, 1.0, 44100)

	ratio := madeUpRMS / flatRMS
	if math.Abs(ratio-math.Pow(10, 6.0/20)) > 0.05 {
		t.Fatalf("makeup ratio %v, want ~1.995", ratio)
	}
}

func TestCompressorDryMix(t *testing.T) {
	c, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetParameters(-30, 10, 0.001, 0.01, false); err != nil {
		t.Fatal(err)
	}
	if err := c.SetMix(0); err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicSine(1000, 44100, 1.0, 4096)
	for i, v := range in {
		l, r := c.ProcessFrame(v, v)
		if l != v || r != v {
			t.Fatalf("sample %d: mix 0 altered input %v -> (%v, %v)", i, v, l, r)
		}
	}
}

func TestCompressorExpanderMode(t *testing.T) {
	c, err := NewCompressor(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetParameters(-20, 4, 0.001, 0.01, true); err != nil {
		t.Fatal(err)
	}

	inRMS, outRMS := runCompressorSine(t, c, 0.01, 44100)
	if outRMS >= inRMS {
		t.Fatalf("expander did not attenuate quiet signal: in %v, out %v", inRMS, outRMS)
	}
}
