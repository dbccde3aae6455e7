// Package delay provides circular delay lines with fractional interpolated
// reads, the building block for echo, modulation, and reverb processors.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/interp"
)

// interpMargin keeps the fractional read position clear of the write head so
// a 4-point interpolation kernel never straddles freshly written samples.
const interpMargin = 3

// Line is a circular delay line with a fractional interpolated read tap,
// dry/wet mix, and feedback.
type Line struct {
	buffer     []float64
	writePos   int
	delay      float64 // samples
	dry        float64
	wet        float64
	feedback   float64
	mode       interp.Mode
	sampleRate float64
}

// Option configures a Line.
type Option func(*Line) error

// WithMaxDelay sizes the buffer for the given maximum delay in seconds.
func WithMaxDelay(seconds float64) Option {
	return func(d *Line) error {
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
			return fmt.Errorf("max delay must be a positive finite value: %v", seconds)
		}
		size := int(math.Ceil(seconds*d.sampleRate)) + interpMargin + 1
		d.buffer = make([]float64, size)
		return nil
	}
}

// WithSize sizes the buffer to an exact sample count.
func WithSize(size int) Option {
	return func(d *Line) error {
		if size <= interpMargin {
			return fmt.Errorf("delay size must be > %d samples: %d", interpMargin, size)
		}
		d.buffer = make([]float64, size)
		return nil
	}
}

// WithMode selects the fractional interpolation strategy.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) error {
		if !mode.Valid() {
			return fmt.Errorf("unknown interpolation mode: %d", int(mode))
		}
		d.mode = mode
		return nil
	}
}

// WithDelayTime sets the initial delay time in milliseconds.
func WithDelayTime(ms float64) Option {
	return func(d *Line) error {
		return d.SetDelayTime(ms)
	}
}

// WithFeedback sets the initial feedback amount.
func WithFeedback(feedback float64) Option {
	return func(d *Line) error {
		return d.SetFeedback(feedback)
	}
}

// WithDryWet sets the initial dry and wet mix scalars.
func WithDryWet(dry, wet float64) Option {
	return func(d *Line) error {
		return d.SetDryWet(dry, wet)
	}
}

// New returns a delay line for the given sample rate. By default the buffer
// holds core.DefaultMaxDelaySeconds of audio, the read tap is fully wet
// with no feedback, and reads use cubic interpolation.
func New(sampleRate float64, opts ...Option) (*Line, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	d := &Line{
		dry:        0,
		wet:        1,
		feedback:   0,
		mode:       interp.Cubic,
		sampleRate: sampleRate,
	}

	d.buffer = make([]float64, int(math.Ceil(core.DefaultMaxDelaySeconds*sampleRate))+interpMargin+1)

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if d.delay > d.maxDelaySamples() {
		return nil, fmt.Errorf("delay %v samples exceeds buffer capacity %v", d.delay, d.maxDelaySamples())
	}

	return d, nil
}

// NewFixed returns a delay line with an exact buffer size and no configured
// sample rate. Intended for fixed network topologies (combs, allpasses)
// that use Write, Read, and ReadOldest directly.
func NewFixed(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size), wet: 1, mode: interp.Cubic}, nil
}

// Len returns the internal buffer size in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// SampleRate returns the configured sample rate.
func (d *Line) SampleRate() float64 {
	return d.sampleRate
}

func (d *Line) maxDelaySamples() float64 {
	return float64(len(d.buffer) - interpMargin - 1)
}

// SetDelayTime sets the delay time in milliseconds.
func (d *Line) SetDelayTime(ms float64) error {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		return fmt.Errorf("delay time must be a non-negative finite value: %v", ms)
	}
	return d.SetDelaySamples(ms / 1000 * d.sampleRate)
}

// SetDelaySamples sets the delay length in (possibly fractional) samples.
func (d *Line) SetDelaySamples(samples float64) error {
	if math.IsNaN(samples) || math.IsInf(samples, 0) || samples < 0 {
		return fmt.Errorf("delay must be a non-negative finite value: %v", samples)
	}
	if samples > d.maxDelaySamples() {
		return fmt.Errorf("delay %v samples exceeds buffer capacity %v", samples, d.maxDelaySamples())
	}
	d.delay = samples
	return nil
}

// DelaySamples returns the current delay length in samples.
func (d *Line) DelaySamples() float64 {
	return d.delay
}

// SetFeedback sets the feedback amount in [-1, 1].
func (d *Line) SetFeedback(feedback float64) error {
	if math.IsNaN(feedback) || math.IsInf(feedback, 0) || feedback < -1 || feedback > 1 {
		return fmt.Errorf("feedback must be in [-1, 1]: %v", feedback)
	}
	d.feedback = feedback
	return nil
}

// SetDryWet sets the dry and wet mix scalars.
func (d *Line) SetDryWet(dry, wet float64) error {
	if math.IsNaN(dry) || math.IsInf(dry, 0) || math.IsNaN(wet) || math.IsInf(wet, 0) {
		return fmt.Errorf("dry/wet must be finite: %v, %v", dry, wet)
	}
	d.dry = dry
	d.wet = wet
	return nil
}

// SetMode selects the fractional interpolation strategy.
func (d *Line) SetMode(mode interp.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown interpolation mode: %d", int(mode))
	}
	d.mode = mode
	return nil
}

// Resize reallocates the buffer to the given size and clears all state.
// Not safe to call from the audio thread.
func (d *Line) Resize(size int) error {
	if size <= interpMargin {
		return fmt.Errorf("delay size must be > %d samples: %d", interpMargin, size)
	}
	d.buffer = make([]float64, size)
	d.writePos = 0
	if d.delay > d.maxDelaySamples() {
		d.delay = d.maxDelaySamples()
	}
	return nil
}

// Write writes one sample and advances the write position.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples relative to the write position.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay + size) % size
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// ReadOldest returns the sample the next Write will overwrite, a
// full-buffer-length delay tap.
func (d *Line) ReadOldest() float64 {
	return d.buffer[d.writePos]
}

// ReadFractional reads a fractional delay using the configured interpolation.
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 0 {
		delay = 0
	}
	if max := d.maxDelaySamples(); delay > max {
		delay = max
	}

	pos := int(math.Floor(delay))
	frac := delay - float64(pos)

	if d.mode == interp.Linear {
		return interp.Lerp(frac, d.Read(pos), d.Read(pos+1))
	}

	xm1 := d.Read(pos - 1)
	if pos == 0 {
		xm1 = d.Read(0)
	}
	return interp.Cubic4(frac, xm1, d.Read(pos), d.Read(pos+1), d.Read(pos+2))
}

// interpolateAt reads the buffer at absolute fractional position t.
func (d *Line) interpolateAt(t float64) float64 {
	n := len(d.buffer)
	t = math.Mod(t, float64(n))
	if t < 0 {
		t += float64(n)
	}

	pos := int(t)
	frac := t - float64(pos)
	next := pos + 1
	if next >= n {
		next = 0
	}

	if d.mode == interp.Linear {
		return interp.Lerp(frac, d.buffer[pos], d.buffer[next])
	}

	prev := pos - 1
	if prev < 0 {
		prev = n - 1
	}
	after := pos + 2
	if after >= n {
		after -= n
	}
	return interp.Cubic4(frac, d.buffer[prev], d.buffer[pos], d.buffer[next], d.buffer[after])
}

// ProcessSample runs one sample through the delay: interpolated read at the
// configured delay, dry/wet mix, and a feedback write.
func (d *Line) ProcessSample(input float64) float64 {
	n := len(d.buffer)

	if d.delay == 0 {
		// Zero delay degenerates to pass-through with feedback applied to
		// the sample being written.
		out := d.dry*input + d.wet*input
		d.Write(core.FlushDenormals(input + input*d.feedback))
		return out
	}

	t := math.Mod(float64(d.writePos)-d.delay+float64(n)-interpMargin, float64(n))
	if t < 0 {
		t += float64(n)
	}

	interpolated := d.interpolateAt(t)
	output := d.dry*input + d.wet*interpolated

	d.buffer[d.writePos] = core.FlushDenormals(input + d.buffer[int(t)]*d.feedback)
	d.writePos++
	if d.writePos >= n {
		d.writePos = 0
	}

	return output
}

// ProcessInPlace processes buf sample by sample, overwriting it.
func (d *Line) ProcessInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = d.ProcessSample(v)
	}
}

// Reset clears the buffer and rewinds the write position.
func (d *Line) Reset() {
	core.Zero(d.buffer)
	d.writePos = 0
}
