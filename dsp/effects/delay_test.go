package effects

import (
	"math"
	"testing"
)

func TestNewDelayValidation(t *testing.T) {
	if _, err := NewDelay(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewDelay(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestDelaySetterValidation(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetTimeMs(0); err == nil {
		t.Fatal("expected error for zero time")
	}
	if err := d.SetTimeMs(6000); err == nil {
		t.Fatal("expected error for time beyond 5 s")
	}
	if err := d.SetFeedback(1.5); err == nil {
		t.Fatal("expected error for feedback above 1")
	}
	if err := d.SetMix(-0.1); err == nil {
		t.Fatal("expected error for negative mix")
	}
}

func TestDelayEchoTiming(t *testing.T) {
	const sr = 48000

	d, err := NewDelay(sr)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetTimeMs(10); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFeedback(0); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMix(1); err != nil {
		t.Fatal(err)
	}

	// 10 ms at 48 kHz is 480 samples; the interpolated tap adds its fixed
	// 3-sample margin.
	const wantIndex = 480 + 3

	var peakIndex int
	var peak float64
	for i := 0; i < 1000; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		out, _ := d.ProcessFrame(in, 0)
		if math.Abs(out) > peak {
			peak = math.Abs(out)
			peakIndex = i
		}
	}

	if peakIndex != wantIndex {
		t.Fatalf("echo peak at sample %d, want %d", peakIndex, wantIndex)
	}
}

func TestDelayChannelsIndependent(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetMix(1); err != nil {
		t.Fatal(err)
	}

	// Only the left channel gets an impulse; the right stays silent.
	for i := 0; i < 48000; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		_, r := d.ProcessFrame(in, 0)
		if r != 0 {
			t.Fatalf("left-channel impulse leaked into right at sample %d: %v", i, r)
		}
	}
}

func TestDelayDryMix(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetMix(0); err != nil {
		t.Fatal(err)
	}

	for i, in := range []float64{0.5, -0.25, 0.75} {
		l, r := d.ProcessFrame(in, -in)
		if l != in || r != -in {
			t.Fatalf("frame %d: mix 0 altered input (%v, %v)", i, l, r)
		}
	}
}

func TestDelayResetClearsTail(t *testing.T) {
	d, err := NewDelay(48000)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetMix(1); err != nil {
		t.Fatal(err)
	}

	d.ProcessFrame(1, 1)
	d.Reset()

	for i := 0; i < 48000; i++ {
		l, r := d.ProcessFrame(0, 0)
		if l != 0 || r != 0 {
			t.Fatalf("tail after Reset at sample %d: (%v, %v)", i, l, r)
		}
	}
}
