package reverb

import (
	"math"
	"testing"
)

func TestAllpassImpulse(t *testing.T) {
	const length = 8

	ap, err := NewAllpass(length)
	if err != nil {
		t.Fatal(err)
	}

	// First tick sees an empty delay: out = delayed - input = -1.
	if got := ap.Tick(1); got != -1 {
		t.Fatalf("first tick = %v, want -1", got)
	}

	// The impulse re-emerges after one full buffer length.
	for i := 1; i < length; i++ {
		if got := ap.Tick(0); got != 0 {
			t.Fatalf("tick %d = %v, want 0", i, got)
		}
	}
	if got := ap.Tick(0); got != 1 {
		t.Fatalf("tick %d = %v, want 1", length, got)
	}
}

func TestCombEchoes(t *testing.T) {
	const (
		length   = 16
		feedback = 0.5
	)

	c, err := NewComb(length)
	if err != nil {
		t.Fatal(err)
	}
	c.SetFeedback(feedback)
	c.SetDamping(0)

	out := make([]float64, 4*length)
	for i := range out {
		in := 0.0
		if i == 0 {
			in = 1
		}
		out[i] = c.Tick(in)
	}

	// Undamped comb emits the impulse every buffer length, scaled by the
	// feedback each round trip.
	want := 1.0
	for round := 1; round <= 3; round++ {
		idx := round * length
		if math.Abs(out[idx]-want) > 1e-12 {
			t.Fatalf("echo %d = %v, want %v", round, out[idx], want)
		}
		want *= feedback
	}

	for i, v := range out {
		if i%length == 0 {
			continue
		}
		if v != 0 {
			t.Fatalf("unexpected output between echoes at sample %d: %v", i, v)
		}
	}
}

func TestCombDampingAttenuatesEchoes(t *testing.T) {
	run := func(damping float64) float64 {
		c, err := NewComb(16)
		if err != nil {
			t.Fatal(err)
		}
		c.SetFeedback(0.8)
		c.SetDamping(damping)

		var energy float64
		for i := 0; i < 256; i++ {
			in := 0.0
			if i == 0 {
				in = 1
			}
			v := c.Tick(in)
			energy += v * v
		}
		return energy
	}

	if bright, damped := run(0), run(0.9); damped >= bright {
		t.Fatalf("damped energy %v should be below undamped %v", damped, bright)
	}
}

func TestCombReset(t *testing.T) {
	c, err := NewComb(8)
	if err != nil {
		t.Fatal(err)
	}
	c.SetFeedback(0.7)
	c.SetDamping(0.3)

	c.Tick(1)
	c.Tick(0.5)
	c.Reset()

	for i := 0; i < 8; i++ {
		if got := c.Tick(0); got != 0 {
			t.Fatalf("tick %d after Reset = %v, want 0", i, got)
		}
	}
}

func TestAdjustLength(t *testing.T) {
	if got := adjustLength(1116, 44100, 44100); got != 1116 {
		t.Fatalf("same-rate length = %d, want 1116", got)
	}
	if got := adjustLength(1116, 44100, 88200); got != 2232 {
		t.Fatalf("doubled-rate length = %d, want 2232", got)
	}
	if got := adjustLength(1, 44100, 22050); got != 1 {
		t.Fatalf("halved unit length = %d, want floor of 1", got)
	}
}
