package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

// Dattorro plate tunings, defined at the 29.761 kHz reference rate of the
// original paper.
const (
	dattorroRefRate = 29761.0

	tankTapGain = 0.6
	filterQ     = 0.707
)

// Input diffuser allpass lengths.
var diffuserTunings = [4]int{142, 107, 379, 277}

// tankTuning describes one tank block: allpass, delay, allpass, delay.
type tankTuning struct {
	diffuser1 int
	delay1    int
	diffuser2 int
	delay2    int
}

var (
	tank1Tuning = tankTuning{diffuser1: 672, delay1: 4453, diffuser2: 1800, delay2: 3720}
	tank2Tuning = tankTuning{diffuser1: 908, delay1: 4217, diffuser2: 2656, delay2: 3163}
)

// tankBlock is one half of the figure-eight: decay diffuser, delay, damping
// low-pass, second diffuser, delay, with taps summed at alternating signs.
type tankBlock struct {
	diffuser1 *Allpass
	delay1    *delay.Line
	damping   *biquad.Filter
	diffuser2 *Allpass
	delay2    *delay.Line

	decay float64
}

func newTankBlock(tuning tankTuning, sampleRate, dampingFc, decay float64) (*tankBlock, error) {
	diffuser1, err := NewAllpass(adjustLength(tuning.diffuser1, dattorroRefRate, sampleRate))
	if err != nil {
		return nil, err
	}
	diffuser2, err := NewAllpass(adjustLength(tuning.diffuser2, dattorroRefRate, sampleRate))
	if err != nil {
		return nil, err
	}

	delay1, err := delay.NewFixed(adjustLength(tuning.delay1, dattorroRefRate, sampleRate))
	if err != nil {
		return nil, err
	}
	delay2, err := delay.NewFixed(adjustLength(tuning.delay2, dattorroRefRate, sampleRate))
	if err != nil {
		return nil, err
	}

	damping, err := biquad.New(biquad.LowPass, dampingFc, filterQ, 0)
	if err != nil {
		return nil, err
	}

	return &tankBlock{
		diffuser1: diffuser1,
		delay1:    delay1,
		damping:   damping,
		diffuser2: diffuser2,
		delay2:    delay2,
		decay:     decay,
	}, nil
}

// process runs one sample through the tank. tap is the three-point
// alternating-sign reverberant output; loop is the terminal delay's tap,
// the signal that continues around the figure-eight.
func (t *tankBlock) process(input float64) (tap, loop float64) {
	diffused1 := t.diffuser1.Tick(input)
	tap = tankTapGain * diffused1

	delayed1 := t.delay1.ReadOldest()
	t.delay1.Write(diffused1)
	damped := t.decay * t.damping.ProcessSample(delayed1)

	tap -= tankTapGain * damped

	diffused2 := t.diffuser2.Tick(damped)
	tap += tankTapGain * diffused2

	loop = t.delay2.ReadOldest()
	t.delay2.Write(diffused2)

	return tap * t.decay, loop * t.decay
}

func (t *tankBlock) reset() {
	t.diffuser1.Reset()
	t.diffuser2.Reset()
	t.delay1.Reset()
	t.delay2.Reset()
	t.damping.Reset()
}

// Dattorro is the plate reverberator from Dattorro's "Effect Design" paper:
// a predelayed, band-limited, diffused mono input feeding two cross-coupled
// tank blocks. Each tank's output is fed to the opposite tank on the next
// tick, and each channel's output is the difference of its tank's forward
// and cross-fed responses.
type Dattorro struct {
	predelay  *delay.Line
	diffuser  [4]*Allpass
	bandwidth *biquad.Filter
	tank1     *tankBlock
	tank2     *tankBlock

	prevLoop1 float64
	prevLoop2 float64

	predelaySamples int
	sampleRate      float64
}

// NewDattorro returns a Dattorro reverberator. dampingFc and bandwidthFc
// are normalized cutoffs in (0, 0.5) for the tank damping and input
// band-limiting filters; decay in [0, 1) controls the tail length;
// maxPredelay is the largest supported predelay in samples.
func NewDattorro(sampleRate, dampingFc, bandwidthFc, decay float64, maxPredelay int) (*Dattorro, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}
	if math.IsNaN(decay) || decay < 0 || decay >= 1 {
		return nil, fmt.Errorf("decay must be in [0, 1): %v", decay)
	}
	if maxPredelay <= 0 {
		return nil, fmt.Errorf("max predelay must be > 0 samples: %d", maxPredelay)
	}

	d := &Dattorro{sampleRate: sampleRate}

	for i, tuning := range diffuserTunings {
		ap, err := NewAllpass(adjustLength(tuning, dattorroRefRate, sampleRate))
		if err != nil {
			return nil, err
		}
		d.diffuser[i] = ap
	}

	var err error
	if d.predelay, err = delay.NewFixed(maxPredelay); err != nil {
		return nil, err
	}
	if d.bandwidth, err = biquad.New(biquad.LowPass, bandwidthFc, filterQ, 0); err != nil {
		return nil, err
	}
	if d.tank1, err = newTankBlock(tank1Tuning, sampleRate, dampingFc, decay); err != nil {
		return nil, err
	}
	if d.tank2, err = newTankBlock(tank2Tuning, sampleRate, dampingFc, decay); err != nil {
		return nil, err
	}

	return d, nil
}

// SetPredelay sets the predelay in samples, up to the construction-time
// maximum.
func (d *Dattorro) SetPredelay(samples int) error {
	if samples < 0 || samples > d.predelay.Len() {
		return fmt.Errorf("predelay must be in [0, %d] samples: %d", d.predelay.Len(), samples)
	}
	d.predelaySamples = samples
	return nil
}

// SetDecay sets the tail decay in [0, 1) on both tanks.
func (d *Dattorro) SetDecay(decay float64) error {
	if math.IsNaN(decay) || decay < 0 || decay >= 1 {
		return fmt.Errorf("decay must be in [0, 1): %v", decay)
	}
	d.tank1.decay = decay
	d.tank2.decay = decay
	return nil
}

// Process runs one stereo frame through the reverberator. pregain scales
// the mono-mixed input before diffusion.
func (d *Dattorro) Process(inLeft, inRight, pregain float64) (outLeft, outRight float64) {
	mono := (inLeft + inRight) / 2 * pregain

	if d.predelaySamples > 0 {
		delayed := d.predelay.Read(d.predelaySamples)
		d.predelay.Write(mono)
		mono = delayed
	}

	mono = d.bandwidth.ProcessSample(mono)

	diffused := mono
	for _, ap := range d.diffuser {
		diffused = ap.Tick(diffused)
	}

	// Forward pass plus a cross-feed pass driven by the previous tick's
	// opposite tank loop.
	forward1, loop1 := d.tank1.process(diffused)
	forward2, loop2 := d.tank2.process(diffused)
	cross1, _ := d.tank1.process(d.prevLoop2)
	cross2, _ := d.tank2.process(d.prevLoop1)

	d.prevLoop1 = loop1
	d.prevLoop2 = loop2

	return forward1 - cross1, forward2 - cross2
}

// ProcessBlocks processes both channel buffers in-place with a constant
// pregain.
func (d *Dattorro) ProcessBlocks(left, right []float64, pregain float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = d.Process(left[i], right[i], pregain)
	}
}

// Reset clears all delay, diffuser, and filter state.
func (d *Dattorro) Reset() {
	d.predelay.Reset()
	d.bandwidth.Reset()
	for _, ap := range d.diffuser {
		ap.Reset()
	}
	d.tank1.reset()
	d.tank2.reset()
	d.prevLoop1 = 0
	d.prevLoop2 = 0
}
