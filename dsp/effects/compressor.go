package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/dynamics"
)

// Compressor wraps the dynamic range processor with input gain, makeup
// gain, and a dry/wet mix, where dry is the post-input-gain signal.
type Compressor struct {
	sampleRate float64
	inGainDB   float64
	makeupDB   float64
	mix        float64
	inGain     float64

	proc *dynamics.Processor
}

// NewCompressor creates a compressor with the processor defaults: -12 dB
// threshold, 4:1 ratio, 2 ms attack, 30 ms release.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	proc, err := dynamics.New(sampleRate)
	if err != nil {
		return nil, err
	}
	return &Compressor{
		sampleRate: sampleRate,
		mix:        1,
		inGain:     1,
		proc:       proc,
	}, nil
}

// SetParameters forwards the dynamics parameters: threshold in dB, ratio,
// attack and release in seconds, and the expander flag.
func (c *Compressor) SetParameters(thresholdDB, ratio, attackS, releaseS float64, isExpander bool) error {
	return c.proc.SetParameters(thresholdDB, ratio, attackS, releaseS, isExpander)
}

// SetInputGainDB sets the input gain in [-30, 30] dB.
func (c *Compressor) SetInputGainDB(gainDB float64) error {
	if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
		return fmt.Errorf("compressor input gain must be in [-30, 30] dB: %f", gainDB)
	}
	c.inGainDB = gainDB
	c.inGain = mathPower10(gainDB / 20)
	return nil
}

// SetMakeupGainDB sets the makeup gain in [-30, 30] dB.
func (c *Compressor) SetMakeupGainDB(gainDB float64) error {
	if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
		return fmt.Errorf("compressor makeup gain must be in [-30, 30] dB: %f", gainDB)
	}
	c.makeupDB = gainDB
	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (c *Compressor) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("compressor mix must be in [0, 1]: %f", mix)
	}
	c.mix = mix
	return nil
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.proc.Reset()
}

// ProcessFrame processes one stereo frame.
func (c *Compressor) ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64) {
	inL := inLeft * c.inGain
	inR := inRight * c.inGain

	wetL, wetR := c.proc.ProcessFrame(inL, inR, c.makeupDB)

	outLeft = inL*(1-c.mix) + wetL*c.mix
	outRight = inR*(1-c.mix) + wetR*c.mix
	return outLeft, outRight
}

// ProcessBlocks processes both channel buffers in place.
func (c *Compressor) ProcessBlocks(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = c.ProcessFrame(left[i], right[i])
	}
}

// EnvelopeDB returns the tracked signal level in dB.
func (c *Compressor) EnvelopeDB() float64 {
	return c.proc.EnvelopeDB()
}

// SampleRate returns the sample rate in Hz.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }
