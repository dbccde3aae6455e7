package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

// impulseTail runs an impulse through r and returns the mono output.
func impulseTail(r *Freeverb, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1
		}
		l, rr := r.Tick(in, in)
		out[i] = (l + rr) / 2
	}
	return out
}

func TestNewFreeverbValidation(t *testing.T) {
	if _, err := NewFreeverb(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewFreeverb(math.Inf(1)); err == nil {
		t.Fatal("expected error for Inf sample rate")
	}
	if _, err := NewFreeverb(44100); err != nil {
		t.Fatalf("NewFreeverb(44100): %v", err)
	}
}

func TestImpulseProducesTail(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}

	out := impulseTail(r, 44100)
	testutil.RequireFinite(t, out)

	// Energy must still be arriving long after the impulse.
	if rms := testutil.RMS(out[22050:]); rms == 0 {
		t.Fatal("no reverb tail after 0.5s")
	}
}

func TestSmallDampedRoomDecaysToSilence(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	r.SetRoomSize(0)
	r.SetDamping(1)
	r.SetFrozen(false)

	out := impulseTail(r, 3*44100)
	testutil.RequireFinite(t, out)

	if peak := testutil.MaxAbs(out[len(out)-22050:]); peak > 1e-4 {
		t.Fatalf("tail peak after 2.5s = %v, want near-silence", peak)
	}
}

func TestLargerRoomDecaysSlower(t *testing.T) {
	tail := func(roomSize float64) float64 {
		r, err := NewFreeverb(44100)
		if err != nil {
			t.Fatal(err)
		}
		r.SetRoomSize(roomSize)
		out := impulseTail(r, 2*44100)
		return testutil.RMS(out[44100:])
	}

	small := tail(0)
	large := tail(1)
	if large <= small {
		t.Fatalf("large-room tail RMS %v should exceed small-room %v", large, small)
	}
}

func TestFreezeSustainsTail(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}

	// Inject an impulse, let the network fill, then freeze.
	for i := 0; i < 4410; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		r.Tick(in, in)
	}
	r.SetFrozen(true)

	first := make([]float64, 44100)
	for i := range first {
		l, rr := r.Tick(0, 0)
		first[i] = (l + rr) / 2
	}
	second := make([]float64, 44100)
	for i := range second {
		l, rr := r.Tick(0, 0)
		second[i] = (l + rr) / 2
	}

	ratio := testutil.RMS(second) / testutil.RMS(first)
	if ratio < 0.8 {
		t.Fatalf("frozen tail decayed: RMS ratio = %v, want ~1", ratio)
	}
}

func TestFrozenInputMuted(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	r.SetFrozen(true)

	// With a silent network and muted input, loud input produces no wet
	// signal.
	for i := 0; i < 4410; i++ {
		l, rr := r.Tick(1, 1)
		if l != 0 || rr != 0 {
			t.Fatalf("sample %d: frozen reverb leaked input (%v, %v)", i, l, rr)
		}
	}
}

func TestZeroWidthIsMono(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	r.SetWidth(0)

	for i := 0; i < 8820; i++ {
		in := 0.0
		if i == 0 {
			in = 1
		}
		l, rr := r.Tick(in, in)
		if math.Abs(l-rr) > 1e-12 {
			t.Fatalf("sample %d: width 0 output not mono (%v vs %v)", i, l, rr)
		}
	}
}

func TestDryPassThrough(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	r.SetWet(0)
	r.SetDry(1)

	in := testutil.DeterministicSine(440, 44100, 0.5, 1024)
	for i, v := range in {
		l, rr := r.Tick(v, v)
		if l != v || rr != v {
			t.Fatalf("sample %d: dry path altered (%v, %v), want %v", i, l, rr, v)
		}
	}
}

func TestSetSampleRateRebuilds(t *testing.T) {
	r, err := NewFreeverb(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetSampleRate(96000); err != nil {
		t.Fatal(err)
	}

	out := impulseTail(r, 96000)
	testutil.RequireFinite(t, out)
	if rms := testutil.RMS(out[48000:]); rms == 0 {
		t.Fatal("no tail after sample-rate change")
	}
}
