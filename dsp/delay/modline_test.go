package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/internal/testutil"
)

func TestNewModValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ModOption
		wantErr bool
	}{
		{name: "defaults"},
		{name: "negative rate", opts: []ModOption{WithRate(-1)}, wantErr: true},
		{name: "negative width", opts: []ModOption{WithWidth(-0.001)}, wantErr: true},
		{name: "nan depth", opts: []ModOption{WithDepth(math.NaN())}, wantErr: true},
		{name: "feedback out of range", opts: []ModOption{WithModFeedback(-2)}, wantErr: true},
		{name: "phase offset too large", opts: []ModOption{WithPhaseOffset(0.6)}, wantErr: true},
		{name: "valid custom", opts: []ModOption{WithRate(5), WithWidth(0.008), WithDepth(0.7), WithPhaseOffset(0.25)}},
		{name: "width beyond default buffer", opts: []ModOption{WithWidth(0.25)}},
		{name: "width over maximum", opts: []ModOption{WithWidth(1.5)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMod(48000, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMod() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVibratoZeroWidthIsFixedDelay(t *testing.T) {
	m, err := NewMod(48000, WithWidth(0))
	if err != nil {
		t.Fatal(err)
	}

	// With no modulation the tap sits a constant interpMargin samples back.
	in := make([]float64, 32)
	for i := range in {
		in[i] = float64(i + 1)
	}

	for i, v := range in {
		got := m.ProcessVibrato(v)
		if i < interpMargin {
			continue
		}
		want := in[i-interpMargin]
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestChorusZeroDepthPassThrough(t *testing.T) {
	m, err := NewMod(48000, WithDepth(0), WithRate(2), WithWidth(0.005))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicSine(440, 48000, 0.5, 128)
	for i, v := range in {
		if got := m.ProcessChorus(v); got != v {
			t.Fatalf("out[%d] = %v, want %v", i, got, v)
		}
	}
}

func TestStereoChorusZeroOffsetIsMono(t *testing.T) {
	m, err := NewMod(48000, WithPhaseOffset(0), WithRate(1.5), WithWidth(0.004), WithDepth(0.8))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(3, 0.5, 256)
	for i, v := range in {
		l, r := m.ProcessStereoChorus(v)
		if l != r {
			t.Fatalf("out[%d]: left %v != right %v with zero phase offset", i, l, r)
		}
	}
}

func TestStereoChorusOffsetDecorrelates(t *testing.T) {
	m, err := NewMod(48000, WithPhaseOffset(0.25), WithRate(2), WithWidth(0.006), WithDepth(1))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicSine(330, 48000, 0.7, 2048)
	var diff float64
	for _, v := range in {
		l, r := m.ProcessStereoChorus(v)
		diff += math.Abs(l - r)
	}

	if diff == 0 {
		t.Fatal("expected phase-offset taps to differ")
	}
}

func TestFlangerStability(t *testing.T) {
	m, err := NewMod(48000, WithRate(0.5), WithWidth(0.003), WithDepth(0.9), WithModFeedback(0.9))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(11, 0.5, 48000)
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = m.ProcessFlanger(v)
	}

	testutil.RequireFinite(t, out)
	if peak := testutil.MaxAbs(out); peak > 20 {
		t.Fatalf("flanger output peak %v suggests runaway feedback", peak)
	}
}

func TestSetWidthGrowsBuffer(t *testing.T) {
	m, err := NewMod(48000, WithWidth(0.25), WithRate(0.5))
	if err != nil {
		t.Fatal(err)
	}

	// The buffer must cover the full quarter-second swing.
	if need := int(math.Ceil(0.25*48000)) + interpMargin + 1; m.line.Len() < need {
		t.Fatalf("buffer %d samples, need at least %d", m.line.Len(), need)
	}

	in := testutil.DeterministicSine(440, 48000, 0.5, 24000)
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = m.ProcessVibrato(v)
	}
	testutil.RequireFinite(t, out)

	if err := m.SetWidth(1.5); err == nil {
		t.Fatal("expected error for width over the maximum")
	}
}

func TestModLineReset(t *testing.T) {
	m, err := NewMod(48000, WithRate(3), WithWidth(0.005))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(5, 0.5, 200)
	first := make([]float64, len(in))
	for i, v := range in {
		first[i] = m.ProcessChorus(v)
	}

	m.Reset()

	second := make([]float64, len(in))
	for i, v := range in {
		second[i] = m.ProcessChorus(v)
	}

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}
