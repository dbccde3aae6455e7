package interp

import (
	"math"
	"testing"
)

func TestLerpEndpoints(t *testing.T) {
	if got := Lerp(0, 2, 5); got != 2 {
		t.Fatalf("Lerp(0): got %v want 2", got)
	}

	if got := Lerp(1, 2, 5); got != 5 {
		t.Fatalf("Lerp(1): got %v want 5", got)
	}

	if got := Lerp(0.5, 2, 5); got != 3.5 {
		t.Fatalf("Lerp(0.5): got %v want 3.5", got)
	}
}

func TestCubic4PassesThroughKnots(t *testing.T) {
	// At t=0 the interpolant must return x0 exactly.
	if got := Cubic4(0, -1, 0.25, 0.5, 1); got != 0.25 {
		t.Fatalf("Cubic4(t=0): got %v want 0.25", got)
	}

	// At t=1 the polynomial reconstructs x1.
	got := Cubic4(1, -1, 0.25, 0.5, 1)
	if math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("Cubic4(t=1): got %v want 0.5", got)
	}
}

func TestCubic4ExactOnLinearRamp(t *testing.T) {
	// A cubic interpolator reproduces a linear ramp exactly.
	for _, frac := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		got := Cubic4(frac, 1, 2, 3, 4)
		want := 2 + frac
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("Cubic4(%v) on ramp: got %v want %v", frac, got, want)
		}
	}
}

func TestCubic4DCPreservation(t *testing.T) {
	for _, frac := range []float64{0, 0.3, 0.7, 0.999} {
		got := Cubic4(frac, 42, 42, 42, 42)
		if math.Abs(got-42) > 1e-12 {
			t.Fatalf("Cubic4(%v) on DC: got %v want 42", frac, got)
		}
	}
}

func TestModeString(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{Linear, "Linear"},
		{Cubic, "Cubic"},
		{Mode(99), "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.want {
			t.Fatalf("String(%d): got %q want %q", int(tc.mode), got, tc.want)
		}
	}
}

func TestModeValid(t *testing.T) {
	if !Linear.Valid() || !Cubic.Valid() {
		t.Fatal("expected Linear and Cubic to be valid")
	}

	if Mode(7).Valid() {
		t.Fatal("expected Mode(7) to be invalid")
	}
}
