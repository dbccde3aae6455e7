package reverb

import (
	"fmt"
	"math"
)

// Freeverb tuning, defined at the 44.1 kHz reference rate.
// https://ccrma.stanford.edu/~jos/pasp/Freeverb.html
const (
	freeverbRefRate = 44100.0

	scaleWet       = 3.0
	scaleDamping   = 0.4
	scaleRoom      = 0.28
	offsetRoom     = 0.7
	stereoSpread   = 23
	fixedInputGain = 0.015
)

var (
	combTunings    = [8]int{1116, 1118, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTunings = [4]int{225, 556, 441, 341}
)

// Freeverb is the classic Schroeder/Moorer reverberator: eight parallel
// damped combs followed by four serial allpasses per channel, with
// stereo-spread delay lengths. Not safe for concurrent use.
type Freeverb struct {
	combsL   [8]*Comb
	combsR   [8]*Comb
	allpassL [4]*Allpass
	allpassR [4]*Allpass

	wetGain1 float64
	wetGain2 float64

	wet       float64
	width     float64
	dry       float64
	inputGain float64
	damping   float64
	roomSize  float64
	frozen    bool

	sampleRate float64
}

// NewFreeverb returns a Freeverb tuned for the given sample rate, with wet
// 1.0, width 0.5, damping 0.5, and room size 0.5.
func NewFreeverb(sampleRate float64) (*Freeverb, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	r := &Freeverb{sampleRate: sampleRate}
	if err := r.buildNetwork(); err != nil {
		return nil, err
	}

	r.SetWet(1)
	r.SetWidth(0.5)
	r.SetDamping(0.5)
	r.SetRoomSize(0.5)
	r.SetFrozen(false)

	return r, nil
}

func (r *Freeverb) buildNetwork() error {
	for i, tuning := range combTunings {
		left, err := NewComb(adjustLength(tuning, freeverbRefRate, r.sampleRate))
		if err != nil {
			return err
		}
		right, err := NewComb(adjustLength(tuning+stereoSpread, freeverbRefRate, r.sampleRate))
		if err != nil {
			return err
		}
		r.combsL[i], r.combsR[i] = left, right
	}

	for i, tuning := range allpassTunings {
		left, err := NewAllpass(adjustLength(tuning, freeverbRefRate, r.sampleRate))
		if err != nil {
			return err
		}
		right, err := NewAllpass(adjustLength(tuning+stereoSpread, freeverbRefRate, r.sampleRate))
		if err != nil {
			return err
		}
		r.allpassL[i], r.allpassR[i] = left, right
	}

	return nil
}

// SetSampleRate rebuilds the delay network at a new sample rate, clearing
// all reverb state. Call only between processing blocks.
func (r *Freeverb) SetSampleRate(sampleRate float64) error {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return fmt.Errorf("sample rate must be a positive finite value: %v", sampleRate)
	}

	r.sampleRate = sampleRate
	if err := r.buildNetwork(); err != nil {
		return err
	}
	r.updateCombs()

	return nil
}

// SetWet sets the wet level in [0, 1].
func (r *Freeverb) SetWet(value float64) {
	r.wet = value * scaleWet
	r.updateWetGains()
}

// SetDry sets the dry level.
func (r *Freeverb) SetDry(value float64) {
	r.dry = value
}

// SetWidth sets the stereo width in [0, 1].
func (r *Freeverb) SetWidth(value float64) {
	r.width = value
	r.updateWetGains()
}

// SetDamping sets the high-frequency damping in [0, 1].
func (r *Freeverb) SetDamping(value float64) {
	r.damping = value * scaleDamping
	r.updateCombs()
}

// SetRoomSize sets the room size in [0, 1], mapped onto comb feedback.
func (r *Freeverb) SetRoomSize(value float64) {
	r.roomSize = value*scaleRoom + offsetRoom
	r.updateCombs()
}

// SetFrozen freezes the reverb tail: comb feedback goes to 1, damping to 0,
// and the input is muted for infinite sustain.
func (r *Freeverb) SetFrozen(frozen bool) {
	r.frozen = frozen
	r.inputGain = 1
	if frozen {
		r.inputGain = 0
	}
	r.updateCombs()
}

func (r *Freeverb) updateCombs() {
	feedback, damping := r.roomSize, r.damping
	if r.frozen {
		feedback, damping = 1, 0
	}

	for i := range r.combsL {
		r.combsL[i].SetFeedback(feedback)
		r.combsR[i].SetFeedback(feedback)
		r.combsL[i].SetDamping(damping)
		r.combsR[i].SetDamping(damping)
	}
}

func (r *Freeverb) updateWetGains() {
	r.wetGain1 = r.wet * (r.width/2 + 0.5)
	r.wetGain2 = r.wet * ((1 - r.width) / 2)
}

// Tick processes one stereo frame.
func (r *Freeverb) Tick(inLeft, inRight float64) (outLeft, outRight float64) {
	mixed := (inLeft + inRight) * fixedInputGain * r.inputGain

	var accL, accR float64
	for i := range r.combsL {
		accL += r.combsL[i].Tick(mixed)
		accR += r.combsR[i].Tick(mixed)
	}
	for i := range r.allpassL {
		accL = r.allpassL[i].Tick(accL)
		accR = r.allpassR[i].Tick(accR)
	}

	outLeft = accL*r.wetGain1 + accR*r.wetGain2 + inLeft*r.dry
	outRight = accR*r.wetGain1 + accL*r.wetGain2 + inRight*r.dry

	return outLeft, outRight
}

// ProcessBlocks processes both channel buffers in-place.
func (r *Freeverb) ProcessBlocks(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = r.Tick(left[i], right[i])
	}
}

// Reset clears all delay and damper state without touching parameters.
func (r *Freeverb) Reset() {
	for i := range r.combsL {
		r.combsL[i].Reset()
		r.combsR[i].Reset()
	}
	for i := range r.allpassL {
		r.allpassL[i].Reset()
		r.allpassR[i].Reset()
	}
}
