// Package reverb provides two feedback-delay-network reverberators: the
// Freeverb comb/allpass network and the Dattorro figure-eight tank.
package reverb

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
)

// denormalEpsilon flushes comb feedback state to zero before it decays into
// the denormal range.
const denormalEpsilon = 1e-23

// Allpass is a Schroeder allpass with a single full-length delay tap and a
// fixed 0.5 feedback gain.
type Allpass struct {
	line *delay.Line
}

// NewAllpass returns an allpass over a delay of the given length in samples.
func NewAllpass(length int) (*Allpass, error) {
	line, err := delay.NewFixed(length)
	if err != nil {
		return nil, err
	}
	return &Allpass{line: line}, nil
}

// Tick processes one sample.
func (a *Allpass) Tick(input float64) float64 {
	const feedback = 0.5

	delayed := a.line.ReadOldest()
	output := delayed - input
	a.line.Write(input + delayed*feedback)

	return output
}

// Reset clears the delay buffer.
func (a *Allpass) Reset() {
	a.line.Reset()
}

// Comb is a feedback comb filter with a one-pole low-pass damper in the
// feedback path.
type Comb struct {
	line *delay.Line

	feedback    float64
	damping     float64
	dampingInv  float64
	filterState float64
}

// NewComb returns a comb filter over a delay of the given length in samples.
func NewComb(length int) (*Comb, error) {
	line, err := delay.NewFixed(length)
	if err != nil {
		return nil, err
	}
	return &Comb{line: line, dampingInv: 1}, nil
}

// SetFeedback sets the feedback gain.
func (c *Comb) SetFeedback(value float64) {
	c.feedback = value
}

// SetDamping sets the one-pole damping amount in [0, 1].
func (c *Comb) SetDamping(value float64) {
	c.damping = value
	c.dampingInv = 1 - value
}

// Tick processes one sample.
func (c *Comb) Tick(input float64) float64 {
	output := c.line.ReadOldest()

	c.filterState = output*c.dampingInv + c.filterState*c.damping
	if c.filterState > -denormalEpsilon && c.filterState < denormalEpsilon {
		c.filterState = 0
	}

	c.line.Write(input + c.filterState*c.feedback)

	return output
}

// Reset clears the delay buffer and the damper state.
func (c *Comb) Reset() {
	c.line.Reset()
	c.filterState = 0
}

// adjustLength rescales a reference delay length to the runtime sample rate.
func adjustLength(length int, refRate, sampleRate float64) int {
	return core.ConvertLength(length, refRate, sampleRate)
}
