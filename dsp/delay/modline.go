package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// ModLine is a delay line whose read position is modulated by a sinusoidal
// LFO. It is the shared core of vibrato, chorus, and flanger processors.
//
// The instantaneous delay follows width*(0.5 + 0.5*sin(2*pi*phase)), with the
// phase advancing by rate/sampleRate per processed sample.
type ModLine struct {
	line        *Line
	rate        float64 // LFO frequency in Hz
	width       float64 // peak modulated delay in seconds
	depth       float64 // wet tap gain
	feedback    float64
	phaseOffset float64 // right-channel phase offset, fraction of a cycle
	phase       float64
}

// ModOption configures a ModLine.
type ModOption func(*ModLine) error

// WithRate sets the initial LFO frequency in Hz.
func WithRate(hz float64) ModOption {
	return func(m *ModLine) error { return m.SetRate(hz) }
}

// WithWidth sets the initial peak modulation depth in seconds of delay.
func WithWidth(seconds float64) ModOption {
	return func(m *ModLine) error { return m.SetWidth(seconds) }
}

// WithDepth sets the initial wet tap gain.
func WithDepth(depth float64) ModOption {
	return func(m *ModLine) error { return m.SetDepth(depth) }
}

// WithModFeedback sets the initial feedback amount.
func WithModFeedback(feedback float64) ModOption {
	return func(m *ModLine) error { return m.SetFeedback(feedback) }
}

// WithPhaseOffset sets the right-channel LFO phase offset as a fraction of a
// cycle, at most 0.5 (180 degrees).
func WithPhaseOffset(fraction float64) ModOption {
	return func(m *ModLine) error { return m.SetPhaseOffset(fraction) }
}

// NewMod returns an LFO-modulated delay line for the given sample rate.
func NewMod(sampleRate float64, opts ...ModOption) (*ModLine, error) {
	line, err := New(sampleRate, WithMaxDelay(0.1))
	if err != nil {
		return nil, err
	}

	m := &ModLine{
		line:        line,
		rate:        1,
		width:       0.005,
		depth:       1,
		phaseOffset: 0.25,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetRate sets the LFO frequency in Hz.
func (m *ModLine) SetRate(hz float64) error {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz < 0 {
		return fmt.Errorf("lfo rate must be a non-negative finite value: %v", hz)
	}
	m.rate = hz
	return nil
}

// maxModWidthSeconds bounds the modulation swing a ModLine will allocate
// for.
const maxModWidthSeconds = 1.0

// SetWidth sets the peak modulated delay in seconds, up to one second.
// Growing the width past the current buffer reallocates and clears the
// line, so widen off the audio path.
func (m *ModLine) SetWidth(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return fmt.Errorf("width must be a non-negative finite value: %v", seconds)
	}
	if seconds > maxModWidthSeconds {
		return fmt.Errorf("width must be at most %vs: %v", maxModWidthSeconds, seconds)
	}

	if need := int(math.Ceil(seconds*m.line.sampleRate)) + interpMargin + 1; need > m.line.Len() {
		if err := m.line.Resize(need); err != nil {
			return err
		}
	}
	m.width = seconds
	return nil
}

// SetDepth sets the wet tap gain.
func (m *ModLine) SetDepth(depth float64) error {
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return fmt.Errorf("depth must be finite: %v", depth)
	}
	m.depth = depth
	return nil
}

// SetFeedback sets the feedback amount in [-1, 1].
func (m *ModLine) SetFeedback(feedback float64) error {
	if math.IsNaN(feedback) || math.IsInf(feedback, 0) || feedback < -1 || feedback > 1 {
		return fmt.Errorf("feedback must be in [-1, 1]: %v", feedback)
	}
	m.feedback = feedback
	return nil
}

// SetPhaseOffset sets the right-channel LFO phase offset in [0, 0.5].
func (m *ModLine) SetPhaseOffset(fraction float64) error {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 0.5 {
		return fmt.Errorf("phase offset must be in [0, 0.5]: %v", fraction)
	}
	m.phaseOffset = fraction
	return nil
}

// readModulated interpolates the tap at the LFO-derived delay, with an
// additional phase shift for stereo taps.
func (m *ModLine) readModulated(phaseShift float64) float64 {
	phase := m.phase + phaseShift
	if phase >= 1 {
		phase--
	}

	currentDelay := m.width * (0.5 + 0.5*math.Sin(2*math.Pi*phase))
	n := float64(m.line.Len())
	t := float64(m.line.writePos) - currentDelay*m.line.sampleRate + n - interpMargin

	return m.line.interpolateAt(t)
}

func (m *ModLine) advancePhase() {
	m.phase += m.rate / m.line.sampleRate
	if m.phase >= 1 {
		m.phase--
	}
}

// ProcessVibrato returns only the modulated tap, replacing the input with a
// pitch-wobbled copy.
func (m *ModLine) ProcessVibrato(input float64) float64 {
	out := m.readModulated(0)
	m.line.Write(input)
	m.advancePhase()
	return out
}

// ProcessChorus mixes the modulated tap with the input at the configured
// depth.
func (m *ModLine) ProcessChorus(input float64) float64 {
	wet := m.readModulated(0)
	m.line.Write(input)
	m.advancePhase()
	return input + m.depth*wet
}

// ProcessStereoChorus produces a stereo pair from a mono input using a
// phase-offset second tap for the right channel.
func (m *ModLine) ProcessStereoChorus(input float64) (left, right float64) {
	wetL := m.readModulated(0)
	wetR := m.readModulated(m.phaseOffset)
	m.line.Write(input)
	m.advancePhase()
	return input + m.depth*wetL, input + m.depth*wetR
}

// ProcessFlanger mixes the modulated tap with the input and feeds the tap
// back into the line for the characteristic resonant sweep.
func (m *ModLine) ProcessFlanger(input float64) float64 {
	wet := m.readModulated(0)
	m.line.Write(core.FlushDenormals(input + wet*m.feedback))
	m.advancePhase()
	return input + m.depth*wet
}

// Reset clears the buffer and rewinds the LFO phase.
func (m *ModLine) Reset() {
	m.line.Reset()
	m.phase = 0
}
