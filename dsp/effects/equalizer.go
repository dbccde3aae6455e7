package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

// Equalizer is a stereo biquad filter section with physical-unit parameter
// setters: frequency in Hz rather than normalized cutoff.
type Equalizer struct {
	sampleRate float64
	freqHz     float64

	filter *biquad.StereoFilter
}

// NewEqualizer creates a stereo filter section of the given type.
func NewEqualizer(sampleRate float64, typ biquad.Type, freqHz, q, gainDB float64) (*Equalizer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("equalizer sample rate must be > 0 and finite: %f", sampleRate)
	}

	fc, err := normalizeFrequency(freqHz, sampleRate)
	if err != nil {
		return nil, err
	}

	filter, err := biquad.NewStereo(typ, fc, q, gainDB)
	if err != nil {
		return nil, err
	}

	return &Equalizer{
		sampleRate: sampleRate,
		freqHz:     freqHz,
		filter:     filter,
	}, nil
}

func normalizeFrequency(freqHz, sampleRate float64) (float64, error) {
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return 0, fmt.Errorf("equalizer frequency must be > 0 Hz: %f", freqHz)
	}
	fc := freqHz / sampleRate
	if fc >= 0.5 {
		return 0, fmt.Errorf("equalizer frequency %g Hz is at or above Nyquist for %g Hz", freqHz, sampleRate)
	}
	return fc, nil
}

// SetType selects the filter type.
func (e *Equalizer) SetType(typ biquad.Type) error {
	return e.filter.SetType(typ)
}

// SetFrequency sets the center/corner frequency in Hz, below Nyquist.
func (e *Equalizer) SetFrequency(freqHz float64) error {
	fc, err := normalizeFrequency(freqHz, e.sampleRate)
	if err != nil {
		return err
	}
	if err := e.filter.SetFc(fc); err != nil {
		return err
	}
	e.freqHz = freqHz
	return nil
}

// SetQ sets the quality factor.
func (e *Equalizer) SetQ(q float64) error {
	return e.filter.SetQ(q)
}

// SetGainDB sets the peak/shelf gain in dB.
func (e *Equalizer) SetGainDB(gainDB float64) error {
	return e.filter.SetPeakGainDB(gainDB)
}

// Reset clears the filter state on both channels.
func (e *Equalizer) Reset() {
	e.filter.Reset()
}

// ProcessFrame processes one stereo frame.
func (e *Equalizer) ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64) {
	return e.filter.ProcessFrame(inLeft, inRight)
}

// ProcessBlocks processes both channel buffers in place.
func (e *Equalizer) ProcessBlocks(left, right []float64) {
	e.filter.ProcessBlocks(left, right)
}

// SampleRate returns the sample rate in Hz.
func (e *Equalizer) SampleRate() float64 { return e.sampleRate }

// Frequency returns the center/corner frequency in Hz.
func (e *Equalizer) Frequency() float64 { return e.freqHz }
