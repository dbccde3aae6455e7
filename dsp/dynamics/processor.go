// Package dynamics provides an envelope-following dynamic range processor
// usable as a compressor or a downward expander.
//
// The envelope follower is a one-pole smoother over the rectified stereo
// peak with separate attack and release coefficients; gain reduction is
// computed in the dB domain from the envelope level, the threshold, and the
// ratio, then applied to both channels together with makeup gain.
package dynamics

import (
	"fmt"
	"math"
)

// Processor is a stereo dynamic range processor. Not safe for concurrent
// use.
type Processor struct {
	sampleRate float64

	thresholdDB float64
	ratio       float64
	attackS     float64
	releaseS    float64
	expander    bool

	attackCoeff  float64
	releaseCoeff float64

	envelope float64 // rectified, smoothed magnitude (linear)
}

// New returns a processor at the given sample rate with a 4:1 compressor
// curve, -12 dB threshold, 2 ms attack, and 30 ms release.
func New(sampleRate float64) (*Processor, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	p := &Processor{sampleRate: sampleRate}
	if err := p.SetParameters(-12, 4, 0.002, 0.030, false); err != nil {
		return nil, err
	}

	return p, nil
}

// SetSampleRate changes the sample rate and rescales the smoothing
// coefficients. Call only between processing blocks.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	p.sampleRate = sampleRate
	p.updateCoefficients()

	return nil
}

// SetParameters sets the full parameter block: threshold in dB, ratio
// (>= 1), attack and release in seconds, and the expander switch.
func (p *Processor) SetParameters(thresholdDB, ratio, attackS, releaseS float64, isExpander bool) error {
	if math.IsNaN(thresholdDB) || math.IsInf(thresholdDB, 0) {
		return fmt.Errorf("threshold must be finite: %v", thresholdDB)
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 1 {
		return fmt.Errorf("ratio must be >= 1: %v", ratio)
	}
	if math.IsNaN(attackS) || attackS <= 0 {
		return fmt.Errorf("attack must be a positive time in seconds: %v", attackS)
	}
	if math.IsNaN(releaseS) || releaseS <= 0 {
		return fmt.Errorf("release must be a positive time in seconds: %v", releaseS)
	}

	p.thresholdDB = thresholdDB
	p.ratio = ratio
	p.attackS = attackS
	p.releaseS = releaseS
	p.expander = isExpander
	p.updateCoefficients()

	return nil
}

// updateCoefficients converts the attack/release times to one-pole
// smoothing coefficients at the current sample rate.
func (p *Processor) updateCoefficients() {
	p.attackCoeff = mathExp(-1 / (p.attackS * p.sampleRate))
	p.releaseCoeff = mathExp(-1 / (p.releaseS * p.sampleRate))
}

// EnvelopeDB returns the current envelope level in dB.
func (p *Processor) EnvelopeDB() float64 {
	if p.envelope <= 0 {
		return math.Inf(-1)
	}
	return 20 * mathLog10(p.envelope)
}

// gainReductionDB computes the dB gain change for the given envelope level.
func (p *Processor) gainReductionDB(levelDB float64) float64 {
	if p.expander {
		// Downward expansion attenuates below the threshold.
		if levelDB < p.thresholdDB {
			return (levelDB - p.thresholdDB) * (1 - 1/p.ratio)
		}
		return 0
	}

	if levelDB > p.thresholdDB {
		return (p.thresholdDB - levelDB) * (1 - 1/p.ratio)
	}
	return 0
}

// ProcessFrame processes one stereo frame, applying the computed gain and
// the makeup gain (in dB) to both channels.
func (p *Processor) ProcessFrame(left, right, makeupDB float64) (outLeft, outRight float64) {
	// Rectified stereo peak drives the envelope.
	magnitude := math.Abs(left)
	if r := math.Abs(right); r > magnitude {
		magnitude = r
	}

	coeff := p.releaseCoeff
	if magnitude > p.envelope {
		coeff = p.attackCoeff
	}
	p.envelope = coeff*p.envelope + (1-coeff)*magnitude

	var levelDB float64
	if p.envelope > 0 {
		levelDB = 20 * mathLog10(p.envelope)
	} else {
		levelDB = math.Inf(-1)
	}

	gainDB := p.gainReductionDB(levelDB) + makeupDB
	gain := mathPower10(gainDB / 20)
	if math.IsNaN(gain) {
		gain = 0
	}

	return left * gain, right * gain
}

// ProcessBlocks processes both channel buffers in-place with a constant
// makeup gain.
func (p *Processor) ProcessBlocks(left, right []float64, makeupDB float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = p.ProcessFrame(left[i], right[i], makeupDB)
	}
}

// Reset clears the envelope follower.
func (p *Processor) Reset() {
	p.envelope = 0
}
