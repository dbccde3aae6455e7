package reverb

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

func newTestDattorro(t *testing.T, decay float64) *Dattorro {
	t.Helper()
	d, err := NewDattorro(44100, 0.05, 0.2, decay, 4410)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func plateImpulse(d *Dattorro, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1
		}
		l, r := d.Process(in, in, 0.5)
		out[i] = (l + r) / 2
	}
	return out
}

func TestNewDattorroValidation(t *testing.T) {
	tests := []struct {
		name        string
		sampleRate  float64
		dampingFc   float64
		bandwidthFc float64
		decay       float64
		maxPredelay int
	}{
		{"zero sample rate", 0, 0.05, 0.2, 0.5, 100},
		{"NaN sample rate", math.NaN(), 0.05, 0.2, 0.5, 100},
		{"damping fc out of range", 44100, 0.6, 0.2, 0.5, 100},
		{"bandwidth fc zero", 44100, 0.05, 0, 0.5, 100},
		{"decay one", 44100, 0.05, 0.2, 1, 100},
		{"decay negative", 44100, 0.05, 0.2, -0.1, 100},
		{"zero max predelay", 44100, 0.05, 0.2, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDattorro(tt.sampleRate, tt.dampingFc, tt.bandwidthFc, tt.decay, tt.maxPredelay)
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := NewDattorro(44100, 0.05, 0.2, 0.5, 4410); err != nil {
		t.Fatalf("valid arguments: %v", err)
	}
}

func TestPlateImpulseTail(t *testing.T) {
	d := newTestDattorro(t, 0.7)

	out := plateImpulse(d, 2*44100)
	testutil.RequireFinite(t, out)

	if rms := testutil.RMS(out[22050:44100]); rms == 0 {
		t.Fatal("no plate tail after 0.5s")
	}
}

func TestPlateDecayControlsTailLength(t *testing.T) {
	tailRMS := func(decay float64) float64 {
		d := newTestDattorro(t, decay)
		out := plateImpulse(d, 2*44100)
		return testutil.RMS(out[44100:])
	}

	short := tailRMS(0.2)
	long := tailRMS(0.9)
	if long <= short {
		t.Fatalf("decay 0.9 tail RMS %v should exceed decay 0.2 tail %v", long, short)
	}
}

func TestPlateStability(t *testing.T) {
	d := newTestDattorro(t, 0.95)

	in := testutil.DeterministicNoise(7, 0.5, 4*44100)
	var peak float64
	for _, v := range in {
		l, r := d.Process(v, v, 0.5)
		if math.IsNaN(l) || math.IsInf(l, 0) || math.IsNaN(r) || math.IsInf(r, 0) {
			t.Fatal("non-finite plate output")
		}
		peak = math.Max(peak, math.Max(math.Abs(l), math.Abs(r)))
	}
	if peak > 20 {
		t.Fatalf("plate output peak %v, feedback loop appears unstable", peak)
	}
}

func TestSetPredelayValidation(t *testing.T) {
	d := newTestDattorro(t, 0.5)

	if err := d.SetPredelay(-1); err == nil {
		t.Fatal("expected error for negative predelay")
	}
	if err := d.SetPredelay(4411); err == nil {
		t.Fatal("expected error for predelay beyond capacity")
	}
	if err := d.SetPredelay(4410); err != nil {
		t.Fatalf("predelay at capacity: %v", err)
	}
}

func TestPredelayShiftsOnset(t *testing.T) {
	const predelay = 1000

	d := newTestDattorro(t, 0.5)
	if err := d.SetPredelay(predelay); err != nil {
		t.Fatal(err)
	}

	out := plateImpulse(d, 4410)
	for i := 0; i < predelay; i++ {
		if out[i] != 0 {
			t.Fatalf("output before predelay elapsed at sample %d: %v", i, out[i])
		}
	}
	if testutil.MaxAbs(out[predelay:]) == 0 {
		t.Fatal("no output after predelay elapsed")
	}
}

func TestSetDecayValidation(t *testing.T) {
	d := newTestDattorro(t, 0.5)

	if err := d.SetDecay(1); err == nil {
		t.Fatal("expected error for decay 1")
	}
	if err := d.SetDecay(math.NaN()); err == nil {
		t.Fatal("expected error for NaN decay")
	}
	if err := d.SetDecay(0); err != nil {
		t.Fatalf("decay 0: %v", err)
	}
}

func TestPlateResetRepeatability(t *testing.T) {
	d := newTestDattorro(t, 0.6)

	first := plateImpulse(d, 8192)
	d.Reset()
	second := plateImpulse(d, 8192)

	diff, err := testutil.MaxAbsDiff(first, second)
	if err != nil {
		t.Fatal(err)
	}
	if diff != 0 {
		t.Fatalf("impulse response after Reset differs by %v", diff)
	}
}

func TestPlateBlocksMatchPerSample(t *testing.T) {
	ref := newTestDattorro(t, 0.6)
	blk := newTestDattorro(t, 0.6)

	inL := testutil.DeterministicNoise(3, 0.5, 2048)
	inR := testutil.DeterministicNoise(4, 0.5, 2048)

	wantL := make([]float64, len(inL))
	wantR := make([]float64, len(inR))
	for i := range inL {
		wantL[i], wantR[i] = ref.Process(inL[i], inR[i], 0.5)
	}

	gotL := append([]float64(nil), inL...)
	gotR := append([]float64(nil), inR...)
	blk.ProcessBlocks(gotL, gotR, 0.5)

	testutil.RequireSliceNearlyEqual(t, gotL, wantL, 0)
	testutil.RequireSliceNearlyEqual(t, gotR, wantR, 0)
}
