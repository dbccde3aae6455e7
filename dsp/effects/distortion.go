package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/filter/halfband"
	"github.com/cwbudde/algo-fx/dsp/waveshaper"
)

const (
	defaultDistortionDrive = 0.5
	defaultDistortionMix   = 1.0
	distortionFilterOrder  = 8
	dcBlockerPole          = 0.995
)

// dcBlocker is a first-order high-pass that removes the DC offset some
// asymmetric waveshapers introduce.
type dcBlocker struct {
	x1 float64
	y1 float64
}

func (f *dcBlocker) process(input float64) float64 {
	output := input - f.x1 + dcBlockerPole*f.y1
	f.x1 = input
	f.y1 = output
	return output
}

func (f *dcBlocker) reset() {
	f.x1 = 0
	f.y1 = 0
}

// Distortion applies a memoryless waveshaper at 4x oversampling: DC blocker,
// input gain, zero-stuffed upsampling through a half-band filter, the
// transfer curve, decimation, dry/wet mix, and output gain. At sample rates
// of 88.2 kHz and above the oversampling stage is bypassed.
type Distortion struct {
	sampleRate float64
	shapeType  waveshaper.Type
	drive      float64
	inGainDB   float64
	outGainDB  float64
	inGain     float64
	outGain    float64
	mix        float64

	dc     dcBlocker
	over   *halfband.Oversampler
	shaper halfband.Shaper
}

// NewDistortion creates a distortion with the given transfer curve.
func NewDistortion(sampleRate float64, shapeType waveshaper.Type) (*Distortion, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("distortion sample rate must be > 0 and finite: %f", sampleRate)
	}
	if !shapeType.Valid() {
		return nil, fmt.Errorf("unknown waveshaper type: %d", int(shapeType))
	}

	over, err := halfband.NewOversampler(sampleRate, distortionFilterOrder)
	if err != nil {
		return nil, err
	}

	d := &Distortion{
		sampleRate: sampleRate,
		shapeType:  shapeType,
		drive:      defaultDistortionDrive,
		mix:        defaultDistortionMix,
		inGain:     1,
		outGain:    1,
		over:       over,
	}
	d.updateShaper()
	return d, nil
}

// SetType selects the transfer curve.
func (d *Distortion) SetType(shapeType waveshaper.Type) error {
	if !shapeType.Valid() {
		return fmt.Errorf("unknown waveshaper type: %d", int(shapeType))
	}
	d.shapeType = shapeType
	d.updateShaper()
	return nil
}

// SetDrive sets the drive amount in [0, 1).
func (d *Distortion) SetDrive(drive float64) error {
	if drive < 0 || drive >= 1 || math.IsNaN(drive) {
		return fmt.Errorf("distortion drive must be in [0, 1): %f", drive)
	}
	d.drive = drive
	d.updateShaper()
	return nil
}

// SetInputGainDB sets the pre-shaper gain in [-30, 30] dB.
func (d *Distortion) SetInputGainDB(gainDB float64) error {
	if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
		return fmt.Errorf("distortion input gain must be in [-30, 30] dB: %f", gainDB)
	}
	d.inGainDB = gainDB
	d.inGain = mathPower10(gainDB / 20)
	return nil
}

// SetOutputGainDB sets the post-mix gain in [-30, 30] dB.
func (d *Distortion) SetOutputGainDB(gainDB float64) error {
	if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
		return fmt.Errorf("distortion output gain must be in [-30, 30] dB: %f", gainDB)
	}
	d.outGainDB = gainDB
	d.outGain = mathPower10(gainDB / 20)
	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (d *Distortion) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("distortion mix must be in [0, 1]: %f", mix)
	}
	d.mix = mix
	return nil
}

// Reset clears the DC blocker and oversampling filter state.
func (d *Distortion) Reset() {
	d.dc.reset()
	d.over.Reset()
}

// ProcessSample processes one sample.
func (d *Distortion) ProcessSample(input float64) float64 {
	in := d.dc.process(input) * d.inGain
	wet := d.over.ProcessSample(in, d.shaper)
	return (in*(1-d.mix) + wet*d.mix) * d.outGain
}

// ProcessInPlace applies the distortion to buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// SampleRate returns the sample rate in Hz.
func (d *Distortion) SampleRate() float64 { return d.sampleRate }

// Type returns the active transfer curve.
func (d *Distortion) Type() waveshaper.Type { return d.shapeType }

// Drive returns the drive amount.
func (d *Distortion) Drive() float64 { return d.drive }

// Mix returns the dry/wet mix.
func (d *Distortion) Mix() float64 { return d.mix }

// OversampleFactor returns 4 when oversampling is active, 1 when bypassed.
func (d *Distortion) OversampleFactor() int { return d.over.Factor() }

// updateShaper rebuilds the bound transfer function so the per-sample path
// does not allocate a closure.
func (d *Distortion) updateShaper() {
	shapeType, drive := d.shapeType, d.drive
	d.shaper = func(x float64) float64 {
		return waveshaper.Shape(shapeType, drive, x)
	}
}
