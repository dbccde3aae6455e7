package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/delay"
)

const (
	defaultChorusRateHz  = 0.35
	defaultChorusWidth   = 0.008
	defaultChorusDepth   = 0.7
	defaultChorusSpread  = 0.25
	defaultChorusMix     = 0.5
	defaultFlangerRateHz = 0.2
	defaultFlangerWidth  = 0.003
	defaultFlangerDepth  = 0.8
	defaultFlangerFeedbk = 0.5
	defaultVibratoRateHz = 5.0
	defaultVibratoWidth  = 0.002
	maxModRateHz         = 20.0
	maxModWidthSeconds   = 0.05
)

func validateModRate(hz float64) error {
	if hz <= 0 || hz > maxModRateHz || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("lfo rate must be in (0, %g] Hz: %f", maxModRateHz, hz)
	}
	return nil
}

func validateModWidth(seconds float64) error {
	if seconds <= 0 || seconds > maxModWidthSeconds || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("lfo width must be in (0, %g] seconds: %f", maxModWidthSeconds, seconds)
	}
	return nil
}

// Chorus thickens the input by mixing in an LFO-modulated delayed copy. A
// phase-offset second tap decorrelates the right channel in stereo use.
type Chorus struct {
	mod *delay.ModLine
	mix float64
}

// NewChorus creates a chorus with ensemble-style defaults.
func NewChorus(sampleRate float64) (*Chorus, error) {
	mod, err := delay.NewMod(sampleRate,
		delay.WithRate(defaultChorusRateHz),
		delay.WithWidth(defaultChorusWidth),
		delay.WithDepth(defaultChorusDepth),
		delay.WithPhaseOffset(defaultChorusSpread),
	)
	if err != nil {
		return nil, err
	}
	return &Chorus{mod: mod, mix: defaultChorusMix}, nil
}

// SetRateHz sets the LFO frequency in (0, 20] Hz.
func (c *Chorus) SetRateHz(hz float64) error {
	if err := validateModRate(hz); err != nil {
		return err
	}
	return c.mod.SetRate(hz)
}

// SetWidth sets the peak modulated delay in (0, 0.05] seconds.
func (c *Chorus) SetWidth(seconds float64) error {
	if err := validateModWidth(seconds); err != nil {
		return err
	}
	return c.mod.SetWidth(seconds)
}

// SetDepth sets the wet tap gain.
func (c *Chorus) SetDepth(depth float64) error {
	return c.mod.SetDepth(depth)
}

// SetSpread sets the right-channel phase offset in [0, 0.5] cycles.
func (c *Chorus) SetSpread(fraction float64) error {
	return c.mod.SetPhaseOffset(fraction)
}

// SetMix sets the dry/wet mix in [0, 1].
func (c *Chorus) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("chorus mix must be in [0, 1]: %f", mix)
	}
	c.mix = mix
	return nil
}

// Reset clears delay state and rewinds the LFO.
func (c *Chorus) Reset() {
	c.mod.Reset()
}

// ProcessSample processes one mono sample.
func (c *Chorus) ProcessSample(input float64) float64 {
	wet := c.mod.ProcessChorus(input)
	return input*(1-c.mix) + wet*c.mix
}

// ProcessFrame processes one stereo frame: the channels are mono-mixed into
// the shared line, and each output takes its own phase-shifted tap.
func (c *Chorus) ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64) {
	mono := (inLeft + inRight) / 2
	wetL, wetR := c.mod.ProcessStereoChorus(mono)
	outLeft = inLeft*(1-c.mix) + wetL*c.mix
	outRight = inRight*(1-c.mix) + wetR*c.mix
	return outLeft, outRight
}

// ProcessInPlace applies the chorus to buf in place (mono).
func (c *Chorus) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// Flanger sweeps a short modulated delay with feedback across the input for
// the characteristic jet-engine comb.
type Flanger struct {
	mod *delay.ModLine
	mix float64
}

// NewFlanger creates a flanger with classic tape-style defaults.
func NewFlanger(sampleRate float64) (*Flanger, error) {
	mod, err := delay.NewMod(sampleRate,
		delay.WithRate(defaultFlangerRateHz),
		delay.WithWidth(defaultFlangerWidth),
		delay.WithDepth(defaultFlangerDepth),
		delay.WithModFeedback(defaultFlangerFeedbk),
	)
	if err != nil {
		return nil, err
	}
	return &Flanger{mod: mod, mix: 1}, nil
}

// SetRateHz sets the LFO frequency in (0, 20] Hz.
func (f *Flanger) SetRateHz(hz float64) error {
	if err := validateModRate(hz); err != nil {
		return err
	}
	return f.mod.SetRate(hz)
}

// SetWidth sets the peak modulated delay in (0, 0.05] seconds.
func (f *Flanger) SetWidth(seconds float64) error {
	if err := validateModWidth(seconds); err != nil {
		return err
	}
	return f.mod.SetWidth(seconds)
}

// SetDepth sets the wet tap gain.
func (f *Flanger) SetDepth(depth float64) error {
	return f.mod.SetDepth(depth)
}

// SetFeedback sets the regeneration amount in [-1, 1].
func (f *Flanger) SetFeedback(feedback float64) error {
	return f.mod.SetFeedback(feedback)
}

// SetMix sets the dry/wet mix in [0, 1].
func (f *Flanger) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("flanger mix must be in [0, 1]: %f", mix)
	}
	f.mix = mix
	return nil
}

// Reset clears delay state and rewinds the LFO.
func (f *Flanger) Reset() {
	f.mod.Reset()
}

// ProcessSample processes one sample.
func (f *Flanger) ProcessSample(input float64) float64 {
	wet := f.mod.ProcessFlanger(input)
	return input*(1-f.mix) + wet*f.mix
}

// ProcessInPlace applies the flanger to buf in place.
func (f *Flanger) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// Vibrato replaces the input with a pitch-wobbled copy: the modulated tap
// only, no dry signal.
type Vibrato struct {
	mod *delay.ModLine
}

// NewVibrato creates a vibrato with a gentle 5 Hz wobble.
func NewVibrato(sampleRate float64) (*Vibrato, error) {
	mod, err := delay.NewMod(sampleRate,
		delay.WithRate(defaultVibratoRateHz),
		delay.WithWidth(defaultVibratoWidth),
	)
	if err != nil {
		return nil, err
	}
	return &Vibrato{mod: mod}, nil
}

// SetRateHz sets the LFO frequency in (0, 20] Hz.
func (v *Vibrato) SetRateHz(hz float64) error {
	if err := validateModRate(hz); err != nil {
		return err
	}
	return v.mod.SetRate(hz)
}

// SetWidth sets the peak modulated delay in (0, 0.05] seconds.
func (v *Vibrato) SetWidth(seconds float64) error {
	if err := validateModWidth(seconds); err != nil {
		return err
	}
	return v.mod.SetWidth(seconds)
}

// Reset clears delay state and rewinds the LFO.
func (v *Vibrato) Reset() {
	v.mod.Reset()
}

// ProcessSample processes one sample.
func (v *Vibrato) ProcessSample(input float64) float64 {
	return v.mod.ProcessVibrato(input)
}

// ProcessInPlace applies the vibrato to buf in place.
func (v *Vibrato) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = v.ProcessSample(buf[i])
	}
}
