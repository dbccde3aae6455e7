package halfband

import (
	"fmt"
	"math"
)

// bypassRate is the sample rate at or above which oversampling is skipped;
// the host is already running fast enough to keep aliases out of band.
const bypassRate = 88200.0

// Shaper is a memoryless per-sample nonlinearity.
type Shaper func(x float64) float64

// Oversampler runs a nonlinear stage at 4x the host rate: each input sample
// is zero-stuffed into a 4-slot frame, every slot passes through an
// interpolation half-band filter, the nonlinearity, and a decimation
// half-band filter, and slot 0 of the frame is kept as the output.
type Oversampler struct {
	up     *Filter
	down   *Filter
	factor int
}

// NewOversampler returns a 4x oversampler using half-band filters of the
// given order. At sample rates of 88.2 kHz and above the nonlinearity runs
// directly at the host rate.
func NewOversampler(sampleRate float64, order int) (*Oversampler, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	up, err := New(order)
	if err != nil {
		return nil, err
	}
	down, err := New(order)
	if err != nil {
		return nil, err
	}

	factor := 4
	if sampleRate >= bypassRate {
		factor = 1
	}

	return &Oversampler{up: up, down: down, factor: factor}, nil
}

// Factor returns the active oversampling factor (1 or 4).
func (o *Oversampler) Factor() int {
	return o.factor
}

// ProcessSample runs one input sample through shape at the oversampled rate.
func (o *Oversampler) ProcessSample(input float64, shape Shaper) float64 {
	if o.factor == 1 {
		return shape(input)
	}

	frame := [4]float64{input, 0, 0, 0}
	for i := range frame {
		interpolated := o.up.ProcessSample(frame[i])
		frame[i] = o.down.ProcessSample(shape(interpolated))
	}

	return frame[0]
}

// Reset clears both half-band filters.
func (o *Oversampler) Reset() {
	o.up.Reset()
	o.down.Reset()
}
