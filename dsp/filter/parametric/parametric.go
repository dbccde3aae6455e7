// Package parametric implements a constant-Q peaking filter with the
// bilinear design from Reiss & McPherson, "Audio Effects: Theory,
// Implementation and Application".
package parametric

import (
	"fmt"
	"math"
)

// Filter is a two-pole, two-zero peaking equalizer in direct form I. The
// center frequency is specified in radians per sample, the gain as a linear
// factor.
type Filter struct {
	b0, b1, b2 float64
	a0, a1, a2 float64

	fc   float64
	q    float64
	gain float64

	x1, x2 float64
	y1, y2 float64
}

// New returns a peaking filter centered at fc radians per sample, in
// (0, pi), with quality factor q > 0 and linear gain > 0.
func New(fc, q, gain float64) (*Filter, error) {
	f := &Filter{}
	if err := f.Configure(fc, q, gain); err != nil {
		return nil, err
	}
	return f, nil
}

// Configure sets all three design parameters and recomputes coefficients.
func (f *Filter) Configure(fc, q, gain float64) error {
	if math.IsNaN(fc) || fc <= 0 || fc >= math.Pi {
		return fmt.Errorf("center frequency must be in (0, pi) radians: %v", fc)
	}
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return fmt.Errorf("quality factor must be > 0: %v", q)
	}
	if math.IsNaN(gain) || math.IsInf(gain, 0) || gain <= 0 {
		return fmt.Errorf("gain must be a positive linear factor: %v", gain)
	}

	f.fc = fc
	f.q = q
	f.gain = gain
	f.recompute()
	return nil
}

// SetFrequency sets the center frequency in (0, pi) radians per sample.
func (f *Filter) SetFrequency(fc float64) error {
	return f.Configure(fc, f.q, f.gain)
}

// SetQ sets the quality factor.
func (f *Filter) SetQ(q float64) error {
	return f.Configure(f.fc, q, f.gain)
}

// SetGain sets the linear peak gain.
func (f *Filter) SetGain(gain float64) error {
	return f.Configure(f.fc, f.q, gain)
}

func (f *Filter) recompute() {
	// Constant-Q bandwidth, capped just below pi to keep tan finite.
	bandwidth := math.Min(math.Pi*0.99, f.fc/f.q)

	twoCos := -2 * math.Cos(f.fc)
	tanHalfBW := math.Tan(bandwidth / 2)
	sqrtGain := math.Sqrt(f.gain)

	f.b0 = sqrtGain + f.gain*tanHalfBW
	f.b1 = sqrtGain * twoCos
	f.b2 = sqrtGain - f.gain*tanHalfBW
	f.a0 = sqrtGain + tanHalfBW
	f.a1 = sqrtGain * twoCos
	f.a2 = sqrtGain - tanHalfBW
}

// ProcessSample runs one sample through the filter.
func (f *Filter) ProcessSample(input float64) float64 {
	output := (f.b0*input + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2) / f.a0

	f.x2 = f.x1
	f.x1 = input
	f.y2 = f.y1
	f.y1 = output

	return output
}

// ProcessBlock filters src into dst, which may alias. It panics when dst is
// shorter than src.
func (f *Filter) ProcessBlock(dst, src []float64) {
	_ = dst[len(src)-1]
	for i, v := range src {
		dst[i] = f.ProcessSample(v)
	}
}

// Reset clears the delay state without touching the design parameters.
func (f *Filter) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}
