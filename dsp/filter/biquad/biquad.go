package biquad

import (
	"fmt"
	"math"
)

// Type selects the filter response shape.
type Type int

const (
	LowPass Type = iota
	HighPass
	BandPass
	Notch
	ParametricEQ
	LowShelf
	HighShelf
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case LowPass:
		return "LowPass"
	case HighPass:
		return "HighPass"
	case BandPass:
		return "BandPass"
	case Notch:
		return "Notch"
	case ParametricEQ:
		return "ParametricEQ"
	case LowShelf:
		return "LowShelf"
	case HighShelf:
		return "HighShelf"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is a known filter type.
func (t Type) Valid() bool {
	return t >= LowPass && t <= HighShelf
}

// Coefficients holds the recursion coefficients of one section. The
// denominator a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = A0*x + z1
//	z1 = A1*x + z2 - B1*y
//	z2 = A2*x - B2*y
type Coefficients struct {
	A0, A1, A2 float64 // feedforward (numerator)
	B1, B2     float64 // feedback (denominator)
}

// Filter is a single second-order section with closed-form coefficient
// design. Not safe for concurrent use.
type Filter struct {
	coeffs Coefficients

	typ    Type
	fc     float64 // normalized cutoff, cycles/sample, in (0, 0.5)
	q      float64
	gainDB float64
	dirty  bool
	z1, z2 float64
}

// New returns a filter of the given type. fc is the normalized cutoff in
// cycles per sample and must lie in (0, 0.5); q must be positive; gainDB is
// the peak gain for the parametric and shelving types.
func New(typ Type, fc, q, gainDB float64) (*Filter, error) {
	f := &Filter{typ: LowPass, fc: 0.25, q: math.Sqrt2 / 2}

	if err := f.SetType(typ); err != nil {
		return nil, err
	}
	if err := f.SetFc(fc); err != nil {
		return nil, err
	}
	if err := f.SetQ(q); err != nil {
		return nil, err
	}
	if err := f.SetPeakGainDB(gainDB); err != nil {
		return nil, err
	}

	f.recompute()

	return f, nil
}

// SetType selects the response shape.
func (f *Filter) SetType(typ Type) error {
	if !typ.Valid() {
		return fmt.Errorf("unknown filter type: %d", int(typ))
	}
	f.typ = typ
	f.dirty = true
	return nil
}

// SetFc sets the normalized cutoff in cycles per sample, in (0, 0.5).
func (f *Filter) SetFc(fc float64) error {
	if math.IsNaN(fc) || fc <= 0 || fc >= 0.5 {
		return fmt.Errorf("normalized cutoff must be in (0, 0.5): %v", fc)
	}
	f.fc = fc
	f.dirty = true
	return nil
}

// SetQ sets the quality factor.
func (f *Filter) SetQ(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return fmt.Errorf("Q must be a positive finite value: %v", q)
	}
	f.q = q
	f.dirty = true
	return nil
}

// SetPeakGainDB sets the peak gain in dB for parametric and shelving types.
func (f *Filter) SetPeakGainDB(gainDB float64) error {
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return fmt.Errorf("peak gain must be finite: %v", gainDB)
	}
	f.gainDB = gainDB
	f.dirty = true
	return nil
}

// Configure sets all four design parameters at once.
func (f *Filter) Configure(typ Type, fc, q, gainDB float64) error {
	if err := f.SetType(typ); err != nil {
		return err
	}
	if err := f.SetFc(fc); err != nil {
		return err
	}
	if err := f.SetQ(q); err != nil {
		return err
	}
	return f.SetPeakGainDB(gainDB)
}

// Coefficients returns the current recursion coefficients, re-deriving them
// first if a parameter changed.
func (f *Filter) Coefficients() Coefficients {
	if f.dirty {
		f.recompute()
	}
	return f.coeffs
}

// recompute derives the coefficients from (type, fc, q, gain) using the
// audio-EQ-cookbook bilinear designs. Boost and cut branches use distinct
// normalizations so the magnitude response is continuous through 0 dB.
func (f *Filter) recompute() {
	v := math.Pow(10, math.Abs(f.gainDB)/20)
	k := math.Tan(math.Pi * f.fc)
	k2 := k * k
	c := &f.coeffs

	switch f.typ {
	case LowPass:
		norm := 1 / (1 + k/f.q + k2)
		c.A0 = k2 * norm
		c.A1 = 2 * c.A0
		c.A2 = c.A0
		c.B1 = 2 * (k2 - 1) * norm
		c.B2 = (1 - k/f.q + k2) * norm

	case HighPass:
		norm := 1 / (1 + k/f.q + k2)
		c.A0 = norm
		c.A1 = -2 * c.A0
		c.A2 = c.A0
		c.B1 = 2 * (k2 - 1) * norm
		c.B2 = (1 - k/f.q + k2) * norm

	case BandPass:
		norm := 1 / (1 + k/f.q + k2)
		c.A0 = k / f.q * norm
		c.A1 = 0
		c.A2 = -c.A0
		c.B1 = 2 * (k2 - 1) * norm
		c.B2 = (1 - k/f.q + k2) * norm

	case Notch:
		norm := 1 / (1 + k/f.q + k2)
		c.A0 = (1 + k2) * norm
		c.A1 = 2 * (k2 - 1) * norm
		c.A2 = c.A0
		c.B1 = c.A1
		c.B2 = (1 - k/f.q + k2) * norm

	case ParametricEQ:
		if f.gainDB >= 0 {
			norm := 1 / (1 + k/f.q + k2)
			c.A0 = (1 + v*k/f.q + k2) * norm
			c.A1 = 2 * (k2 - 1) * norm
			c.A2 = (1 - v*k/f.q + k2) * norm
			c.B1 = c.A1
			c.B2 = (1 - k/f.q + k2) * norm
		} else {
			norm := 1 / (1 + v*k/f.q + k2)
			c.A0 = (1 + k/f.q + k2) * norm
			c.A1 = 2 * (k2 - 1) * norm
			c.A2 = (1 - k/f.q + k2) * norm
			c.B1 = c.A1
			c.B2 = (1 - v*k/f.q + k2) * norm
		}

	case LowShelf:
		sqrt2 := math.Sqrt2
		sqrt2v := math.Sqrt(2 * v)
		if f.gainDB >= 0 {
			norm := 1 / (1 + sqrt2*k + k2)
			c.A0 = (1 + sqrt2v*k + v*k2) * norm
			c.A1 = 2 * (v*k2 - 1) * norm
			c.A2 = (1 - sqrt2v*k + v*k2) * norm
			c.B1 = 2 * (k2 - 1) * norm
			c.B2 = (1 - sqrt2*k + k2) * norm
		} else {
			norm := 1 / (1 + sqrt2v*k + v*k2)
			c.A0 = (1 + sqrt2*k + k2) * norm
			c.A1 = 2 * (k2 - 1) * norm
			c.A2 = (1 - sqrt2*k + k2) * norm
			c.B1 = 2 * (v*k2 - 1) * norm
			c.B2 = (1 - sqrt2v*k + v*k2) * norm
		}

	case HighShelf:
		sqrt2 := math.Sqrt2
		sqrt2v := math.Sqrt(2 * v)
		if f.gainDB >= 0 {
			norm := 1 / (1 + sqrt2*k + k2)
			c.A0 = (v + sqrt2v*k + k2) * norm
			c.A1 = 2 * (k2 - v) * norm
			c.A2 = (v - sqrt2v*k + k2) * norm
			c.B1 = 2 * (k2 - 1) * norm
			c.B2 = (1 - sqrt2*k + k2) * norm
		} else {
			norm := 1 / (v + sqrt2v*k + k2)
			c.A0 = (1 + sqrt2*k + k2) * norm
			c.A1 = 2 * (k2 - 1) * norm
			c.A2 = (1 - sqrt2*k + k2) * norm
			c.B1 = 2 * (k2 - v) * norm
			c.B2 = (v - sqrt2v*k + k2) * norm
		}
	}

	f.dirty = false
}

// ProcessSample filters one input sample and returns the output.
func (f *Filter) ProcessSample(x float64) float64 {
	if f.dirty {
		f.recompute()
	}

	c := &f.coeffs
	y := c.A0*x + f.z1
	f.z1 = c.A1*x + f.z2 - c.B1*y
	f.z2 = c.A2*x - c.B2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (f *Filter) ProcessBlock(buf []float64) {
	if f.dirty {
		f.recompute()
	}

	a0, a1, a2 := f.coeffs.A0, f.coeffs.A1, f.coeffs.A2
	b1, b2 := f.coeffs.B1, f.coeffs.B2
	z1, z2 := f.z1, f.z2

	for i, x := range buf {
		y := a0*x + z1
		z1 = a1*x + z2 - b1*y
		z2 = a2*x - b2*y
		buf[i] = y
	}

	f.z1, f.z2 = z1, z2
}

// Reset clears the unit-delay state without touching the design parameters.
func (f *Filter) Reset() {
	f.z1 = 0
	f.z2 = 0
}
