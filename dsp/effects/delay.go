package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/delay"
)

const (
	defaultDelayTimeMs  = 300.0
	defaultDelayFeedbck = 0.5
	defaultDelayMix     = 0.5
	minDelayTimeMs      = 0.1
	maxDelayTimeMs      = 5000.0
)

// Delay is a stereo feedback delay: one fractional delay line per channel
// with shared time, feedback, and dry/wet settings.
type Delay struct {
	sampleRate float64
	timeMs     float64
	feedback   float64
	mix        float64

	lineL *delay.Line
	lineR *delay.Line
}

// NewDelay creates a stereo delay with a 5 second maximum time.
func NewDelay(sampleRate float64) (*Delay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay sample rate must be > 0 and finite: %f", sampleRate)
	}

	newLine := func() (*delay.Line, error) {
		return delay.New(sampleRate,
			delay.WithMaxDelay(maxDelayTimeMs/1000),
			delay.WithDryWet(0, 1),
			delay.WithDelayTime(defaultDelayTimeMs),
			delay.WithFeedback(defaultDelayFeedbck),
		)
	}

	lineL, err := newLine()
	if err != nil {
		return nil, err
	}
	lineR, err := newLine()
	if err != nil {
		return nil, err
	}

	return &Delay{
		sampleRate: sampleRate,
		timeMs:     defaultDelayTimeMs,
		feedback:   defaultDelayFeedbck,
		mix:        defaultDelayMix,
		lineL:      lineL,
		lineR:      lineR,
	}, nil
}

// SetTimeMs sets the delay time in milliseconds, in [0.1, 5000].
func (d *Delay) SetTimeMs(timeMs float64) error {
	if timeMs < minDelayTimeMs || timeMs > maxDelayTimeMs ||
		math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return fmt.Errorf("delay time must be in [%g, %g] ms: %f",
			minDelayTimeMs, maxDelayTimeMs, timeMs)
	}
	if err := d.lineL.SetDelayTime(timeMs); err != nil {
		return err
	}
	if err := d.lineR.SetDelayTime(timeMs); err != nil {
		return err
	}
	d.timeMs = timeMs
	return nil
}

// SetFeedback sets the feedback amount in [0, 1].
func (d *Delay) SetFeedback(feedback float64) error {
	if feedback < 0 || feedback > 1 || math.IsNaN(feedback) {
		return fmt.Errorf("delay feedback must be in [0, 1]: %f", feedback)
	}
	if err := d.lineL.SetFeedback(feedback); err != nil {
		return err
	}
	if err := d.lineR.SetFeedback(feedback); err != nil {
		return err
	}
	d.feedback = feedback
	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (d *Delay) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("delay mix must be in [0, 1]: %f", mix)
	}
	d.mix = mix
	return nil
}

// Reset clears both delay lines.
func (d *Delay) Reset() {
	d.lineL.Reset()
	d.lineR.Reset()
}

// ProcessSample processes one mono sample through the left line.
func (d *Delay) ProcessSample(input float64) float64 {
	wet := d.lineL.ProcessSample(input)
	return input*(1-d.mix) + wet*d.mix
}

// ProcessFrame processes one stereo frame.
func (d *Delay) ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64) {
	wetL := d.lineL.ProcessSample(inLeft)
	wetR := d.lineR.ProcessSample(inRight)
	outLeft = inLeft*(1-d.mix) + wetL*d.mix
	outRight = inRight*(1-d.mix) + wetR*d.mix
	return outLeft, outRight
}

// ProcessBlocks processes both channel buffers in place.
func (d *Delay) ProcessBlocks(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = d.ProcessFrame(left[i], right[i])
	}
}

// SampleRate returns the sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// TimeMs returns the delay time in milliseconds.
func (d *Delay) TimeMs() float64 { return d.timeMs }

// Feedback returns the feedback amount.
func (d *Delay) Feedback() float64 { return d.feedback }

// Mix returns the dry/wet mix.
func (d *Delay) Mix() float64 { return d.mix }
