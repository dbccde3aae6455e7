package effects

import (
	"fmt"
	"math"
)

const (
	defaultBitCrusherBits       = 16.0
	defaultBitCrusherConstant   = 0.0
	defaultBitCrusherDownsample = 1
	defaultBitCrusherMix        = 1.0
	minBitCrusherBits           = 1.0
	maxBitCrusherBits           = 32.0
	maxBitCrusherDownsample     = 256
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	bits       float64
	constant   float64
	downsample int
	mix        float64
	gainDB     float64
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		bits:       defaultBitCrusherBits,
		constant:   defaultBitCrusherConstant,
		downsample: defaultBitCrusherDownsample,
		mix:        defaultBitCrusherMix,
	}
}

// WithBitCrusherBits sets the quantization bit depth. Fractional values are
// supported for smooth parameter sweeps. Range: [1, 32].
func WithBitCrusherBits(bits float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if bits < minBitCrusherBits || bits > maxBitCrusherBits ||
			math.IsNaN(bits) || math.IsInf(bits, 0) {
			return fmt.Errorf("bit crusher bits must be in [%g, %g]: %f",
				minBitCrusherBits, maxBitCrusherBits, bits)
		}
		cfg.bits = bits
		return nil
	}
}

// WithBitCrusherConstant sets the float-constant quantizer: each sample is
// replaced by round(x*c)/c, simulating floating-point precision loss.
// Zero disables the stage.
func WithBitCrusherConstant(constant float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if constant < 0 || math.IsNaN(constant) || math.IsInf(constant, 0) {
			return fmt.Errorf("bit crusher constant must be >= 0 and finite: %f", constant)
		}
		cfg.constant = constant
		return nil
	}
}

// WithBitCrusherDownsample sets the sample-and-hold factor. A value of 1
// means no downsampling; 4 holds every sample for 4 output samples.
// Range: [1, 256].
func WithBitCrusherDownsample(factor int) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if factor < 1 || factor > maxBitCrusherDownsample {
			return fmt.Errorf("bit crusher downsample factor must be in [1, %d]: %d",
				maxBitCrusherDownsample, factor)
		}
		cfg.downsample = factor
		return nil
	}
}

// WithBitCrusherMix sets the dry/wet mix in [0, 1].
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("bit crusher mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// WithBitCrusherGainDB sets the output gain in dB, in [-30, 30].
func WithBitCrusherGainDB(gainDB float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
			return fmt.Errorf("bit crusher gain must be in [-30, 30] dB: %f", gainDB)
		}
		cfg.gainDB = gainDB
		return nil
	}
}

// BitCrusher degrades audio through three independent mechanisms:
//
//   - Bit-depth quantization snaps samples to the nearest multiple of
//     2^-bits. The input is assumed to be in [-1, 1]; values outside this
//     range are quantized but not clipped.
//
//   - Float-constant quantization replaces each sample with round(x*c)/c,
//     the rounding error of low-precision floating point arithmetic.
//
//   - Downsampling holds each wet sample for Downsample consecutive output
//     samples (sample-and-hold).
//
// With bits=32, constant=0, and downsample=1 the wet path is transparent.
type BitCrusher struct {
	sampleRate float64
	bits       float64
	constant   float64
	downsample int
	mix        float64
	gain       float64
	gainDB     float64

	// Precomputed quantization step, 2^-bits.
	step float64

	// Sample-and-hold state.
	holdCounter int
	holdValue   float64
}

// NewBitCrusher creates a bit crusher with the given sample rate and
// optional configuration overrides.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bit crusher sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{
		sampleRate: sampleRate,
		bits:       cfg.bits,
		constant:   cfg.constant,
		downsample: cfg.downsample,
		mix:        cfg.mix,
		gainDB:     cfg.gainDB,
	}
	bc.updateStep()
	bc.updateGain()
	return bc, nil
}

// SetBits sets the quantization bit depth in [1, 32].
func (bc *BitCrusher) SetBits(bits float64) error {
	if bits < minBitCrusherBits || bits > maxBitCrusherBits ||
		math.IsNaN(bits) || math.IsInf(bits, 0) {
		return fmt.Errorf("bit crusher bits must be in [%g, %g]: %f",
			minBitCrusherBits, maxBitCrusherBits, bits)
	}
	bc.bits = bits
	bc.updateStep()
	return nil
}

// SetConstant sets the float-constant quantizer; zero disables it.
func (bc *BitCrusher) SetConstant(constant float64) error {
	if constant < 0 || math.IsNaN(constant) || math.IsInf(constant, 0) {
		return fmt.Errorf("bit crusher constant must be >= 0 and finite: %f", constant)
	}
	bc.constant = constant
	return nil
}

// SetDownsample sets the sample-and-hold factor in [1, 256].
func (bc *BitCrusher) SetDownsample(factor int) error {
	if factor < 1 || factor > maxBitCrusherDownsample {
		return fmt.Errorf("bit crusher downsample factor must be in [1, %d]: %d",
			maxBitCrusherDownsample, factor)
	}
	bc.downsample = factor
	return nil
}

// SetMix sets the dry/wet mix in [0, 1].
func (bc *BitCrusher) SetMix(mix float64) error {
	if mix < 0 || mix > 1 || math.IsNaN(mix) || math.IsInf(mix, 0) {
		return fmt.Errorf("bit crusher mix must be in [0, 1]: %f", mix)
	}
	bc.mix = mix
	return nil
}

// SetGainDB sets the output gain in [-30, 30] dB.
func (bc *BitCrusher) SetGainDB(gainDB float64) error {
	if gainDB < -30 || gainDB > 30 || math.IsNaN(gainDB) {
		return fmt.Errorf("bit crusher gain must be in [-30, 30] dB: %f", gainDB)
	}
	bc.gainDB = gainDB
	bc.updateGain()
	return nil
}

// Reset clears the sample-and-hold state.
func (bc *BitCrusher) Reset() {
	bc.holdCounter = 0
	bc.holdValue = 0
}

// ProcessSample processes one sample.
func (bc *BitCrusher) ProcessSample(input float64) float64 {
	bc.holdCounter++
	if bc.holdCounter >= bc.downsample {
		bc.holdCounter = 0
		bc.holdValue = bc.crush(input)
	}

	return (input*(1-bc.mix) + bc.holdValue*bc.mix) * bc.gain
}

// ProcessInPlace applies the bit crusher to buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = bc.ProcessSample(buf[i])
	}
}

// SampleRate returns the sample rate in Hz.
func (bc *BitCrusher) SampleRate() float64 { return bc.sampleRate }

// Bits returns the quantization bit depth.
func (bc *BitCrusher) Bits() float64 { return bc.bits }

// Constant returns the float-constant quantizer value.
func (bc *BitCrusher) Constant() float64 { return bc.constant }

// Downsample returns the sample-and-hold factor.
func (bc *BitCrusher) Downsample() int { return bc.downsample }

// Mix returns the dry/wet mix in [0, 1].
func (bc *BitCrusher) Mix() float64 { return bc.mix }

// GainDB returns the output gain in dB.
func (bc *BitCrusher) GainDB() float64 { return bc.gainDB }

func (bc *BitCrusher) updateStep() {
	bc.step = mathPower2(-bc.bits)
}

func (bc *BitCrusher) updateGain() {
	bc.gain = mathPower10(bc.gainDB / 20)
}

// crush runs both quantization stages.
func (bc *BitCrusher) crush(sample float64) float64 {
	out := math.Round(sample/bc.step) * bc.step
	if bc.constant > 0 {
		out = math.Round(out*bc.constant) / bc.constant
	}
	return out
}
