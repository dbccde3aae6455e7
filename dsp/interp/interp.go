package interp

// Mode selects the fractional interpolation strategy used by delay lines.
type Mode int

const (
	// Linear interpolates between two neighboring samples.
	Linear Mode = iota
	// Cubic interpolates over four neighboring samples (Catmull-Rom style).
	Cubic
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "Linear"
	case Cubic:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is a known interpolation mode.
func (m Mode) Valid() bool {
	return m == Linear || m == Cubic
}

// Lerp interpolates between x0 and x1 at fraction t in [0, 1].
func Lerp(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Cubic4 computes 4-point cubic interpolation at fraction t in [0, 1],
// interpolating from x0 toward x1 using neighbors xm1 and x2.
func Cubic4(t, xm1, x0, x1, x2 float64) float64 {
	a := (3*(x0-x1) - xm1 + x2) / 2
	b := 2*x1 + xm1 - (5*x0+x2)/2
	c := (x1 - xm1) / 2

	return ((a*t+b)*t+c)*t + x0
}
