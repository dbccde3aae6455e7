// Package waveshaper provides memoryless nonlinear transfer curves for
// distortion effects. Every shape takes a drive amount in [0, 1] and an
// input sample; none of them introduce a DC offset at zero input.
package waveshaper

import "math"

// Type selects a waveshaping curve.
type Type int

const (
	Saturation Type = iota
	HardClipping
	FuzzyRectifier
	ShockleyDiode
	Dropout
	DoubleSoftClipper
	Wavefolding
)

// String returns the curve name.
func (t Type) String() string {
	switch t {
	case Saturation:
		return "Saturation"
	case HardClipping:
		return "HardClipping"
	case FuzzyRectifier:
		return "FuzzyRectifier"
	case ShockleyDiode:
		return "ShockleyDiode"
	case Dropout:
		return "Dropout"
	case DoubleSoftClipper:
		return "DoubleSoftClipper"
	case Wavefolding:
		return "Wavefolding"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is a known curve.
func (t Type) Valid() bool {
	return t >= Saturation && t <= Wavefolding
}

// Shape runs one sample through the selected curve.
func Shape(typ Type, drive, x float64) float64 {
	switch typ {
	case Saturation:
		return Saturate(drive, x)
	case HardClipping:
		return HardClip(drive, x)
	case FuzzyRectifier:
		return FuzzyRectify(drive, x)
	case ShockleyDiode:
		return ShockleyRectify(drive, x)
	case Dropout:
		return DropoutShape(drive, x)
	case DoubleSoftClipper:
		return DoubleSoftClip(drive, x)
	case Wavefolding:
		return Wavefold(drive, x)
	default:
		return x
	}
}

// Saturate is a smooth saturating shaper. Higher drive narrows the linear
// region; the output is trimmed to keep loudness close to the input.
func Saturate(drive, x float64) float64 {
	if drive > 0.99 {
		drive = 0.99
	}
	k := 2 * drive / (1 - drive)
	wet := ((1 + k) * x) / (1 + k*math.Abs(x))
	return (1 - 0.3*drive) * wet
}

// HardClip clips at a drive-dependent threshold with extra input gain, so
// rising drive both lowers the ceiling and pushes more signal into it.
func HardClip(drive, x float64) float64 {
	threshold := 1 - 0.5*drive
	slope := 1 + 0.5*drive

	x *= 1 + 4*drive
	switch {
	case math.Abs(x) < threshold:
		return slope * x
	case slope*x > threshold:
		return slope * threshold
	default:
		return -slope * threshold
	}
}

// FuzzyRectify morphs from a half-wave rectifier at drive 0 toward a
// full-wave rectifier at drive 1, then saturates the result.
func FuzzyRectify(drive, x float64) float64 {
	out := x
	if x < 0 {
		out = (1 - 2*drive) * x
	}
	return Saturate(drive, out)
}

// ShockleyRectify models a Shockley diode's exponential transfer curve, with
// a hard clipper in series to bound the output.
func ShockleyRectify(drive, x float64) float64 {
	diode := (0.4*drive + 0.1) * (math.Exp((2+2*drive)*x) - 1)
	return HardClip(drive, diode)
}

// DropoutShape snaps low-level input toward zero through a cubic dead zone
// whose width grows with drive. Drive 0 is exact identity.
func DropoutShape(drive, x float64) float64 {
	if drive == 0 {
		return x
	}

	b := math.Sqrt(drive * drive * drive / 3)
	knee := b / drive
	knee3 := knee * knee * knee

	var out float64
	switch {
	case x < -b:
		out = x + b - knee3
	case x <= b:
		r := x / drive
		out = r * r * r
	default:
		out = x - b + knee3
	}

	return HardClip(drive, out)
}

func cubicClip(x float64) float64 {
	return 0.75 * (x - x*x*x/3)
}

func lowerClip(x, skew float64) float64 {
	knee := 1 / skew
	switch {
	case x < -knee:
		return -0.5
	case x > knee:
		return 0.5
	default:
		return cubicClip(skew * x)
	}
}

// DoubleSoftClip is an asymmetric shaper: the negative lobe is skewed by
// drive, the positive lobe's ceiling drops with drive, and both lobes pass
// through the saturator.
func DoubleSoftClip(drive, x float64) float64 {
	upperLimit := 1 - 0.4*drive
	lowerSkew := 2*drive + 1

	switch {
	case x >= -1 && x <= 0:
		out := lowerClip(2*x+1, lowerSkew) - 0.5
		return Saturate(drive, out)
	case x > 0 && x <= 1:
		out := upperLimit * (cubicClip(2*(x*1.5)-1) + 0.5)
		return Saturate(drive, out)
	case x < -1:
		return -1
	default:
		return 1
	}
}

// Wavefold folds the input through a sine whose frequency rises with drive,
// crossfading between dry and folded by the drive amount.
func Wavefold(drive, x float64) float64 {
	k := 1 + drive*3
	wet := math.Sin(2 * math.Pi * k * x)
	mixed := (1-drive)*x + drive*wet
	return (1 - 0.3*drive) * mixed
}
