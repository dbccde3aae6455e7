package biquad

import "math"

// MagnitudeAt evaluates the magnitude response |H(e^jw)| of the coefficients
// at the normalized frequency freq in cycles per sample.
func (c Coefficients) MagnitudeAt(freq float64) float64 {
	w := 2 * math.Pi * freq
	cos1, sin1 := math.Cos(w), math.Sin(w)
	cos2, sin2 := math.Cos(2*w), math.Sin(2*w)

	numRe := c.A0 + c.A1*cos1 + c.A2*cos2
	numIm := -(c.A1*sin1 + c.A2*sin2)
	denRe := 1 + c.B1*cos1 + c.B2*cos2
	denIm := -(c.B1*sin1 + c.B2*sin2)

	num := math.Hypot(numRe, numIm)
	den := math.Hypot(denRe, denIm)
	if den == 0 {
		return math.Inf(1)
	}

	return num / den
}

// MagnitudeDBAt evaluates the magnitude response in dB at the normalized
// frequency freq.
func (c Coefficients) MagnitudeDBAt(freq float64) float64 {
	return 20 * math.Log10(c.MagnitudeAt(freq))
}
