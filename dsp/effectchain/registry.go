package effectchain

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cwbudde/algo-fx/dsp/effects"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/reverb"
	"github.com/cwbudde/algo-fx/dsp/waveshaper"
)

// Factory constructs a stereo effect for the given sample rate.
type Factory func(sampleRate float64) (StereoEffect, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a factory available under the given name. Registering a
// name twice is an error so packages cannot silently shadow each other.
func Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("effect name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("effect %q: factory must not be nil", name)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("effect %q already registered", name)
	}
	registry[name] = factory
	return nil
}

// Build constructs a registered effect by name.
func Build(name string, sampleRate float64) (StereoEffect, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown effect %q", name)
	}
	return factory(sampleRate)
}

// RegisteredNames returns the sorted names of all registered effects.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// monoSampler is the per-sample surface of the mono effects.
type monoSampler interface {
	ProcessSample(input float64) float64
	Reset()
}

// dualMono runs an independent mono instance per channel so channel state
// never leaks across.
type dualMono struct {
	left  monoSampler
	right monoSampler
}

func (d *dualMono) ProcessFrame(inLeft, inRight float64) (float64, float64) {
	return d.left.ProcessSample(inLeft), d.right.ProcessSample(inRight)
}

func (d *dualMono) Reset() {
	d.left.Reset()
	d.right.Reset()
}

func newDualMono(build func() (monoSampler, error)) (StereoEffect, error) {
	left, err := build()
	if err != nil {
		return nil, err
	}
	right, err := build()
	if err != nil {
		return nil, err
	}
	return &dualMono{left: left, right: right}, nil
}

// freeverbStage adapts the reverb tick loop to the chain interface.
type freeverbStage struct {
	rev *reverb.Freeverb
}

func (s *freeverbStage) ProcessFrame(inLeft, inRight float64) (float64, float64) {
	return s.rev.Tick(inLeft, inRight)
}

func (s *freeverbStage) Reset() { s.rev.Reset() }

// plateStage adapts the Dattorro plate, fixing the input pregain.
type plateStage struct {
	rev     *reverb.Dattorro
	pregain float64
}

func (s *plateStage) ProcessFrame(inLeft, inRight float64) (float64, float64) {
	return s.rev.Process(inLeft, inRight, s.pregain)
}

func (s *plateStage) Reset() { s.rev.Reset() }

func mustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

func init() {
	mustRegister("delay", func(sampleRate float64) (StereoEffect, error) {
		return effects.NewDelay(sampleRate)
	})
	mustRegister("chorus", func(sampleRate float64) (StereoEffect, error) {
		return effects.NewChorus(sampleRate)
	})
	mustRegister("equalizer", func(sampleRate float64) (StereoEffect, error) {
		return effects.NewEqualizer(sampleRate, biquad.ParametricEQ, 1000, 0.707, 0)
	})
	mustRegister("compressor", func(sampleRate float64) (StereoEffect, error) {
		return effects.NewCompressor(sampleRate)
	})
	mustRegister("flanger", func(sampleRate float64) (StereoEffect, error) {
		return newDualMono(func() (monoSampler, error) {
			return effects.NewFlanger(sampleRate)
		})
	})
	mustRegister("vibrato", func(sampleRate float64) (StereoEffect, error) {
		return newDualMono(func() (monoSampler, error) {
			return effects.NewVibrato(sampleRate)
		})
	})
	mustRegister("bitcrusher", func(sampleRate float64) (StereoEffect, error) {
		return newDualMono(func() (monoSampler, error) {
			return effects.NewBitCrusher(sampleRate)
		})
	})
	mustRegister("distortion", func(sampleRate float64) (StereoEffect, error) {
		return newDualMono(func() (monoSampler, error) {
			return effects.NewDistortion(sampleRate, waveshaper.Saturation)
		})
	})
	mustRegister("freeverb", func(sampleRate float64) (StereoEffect, error) {
		rev, err := reverb.NewFreeverb(sampleRate)
		if err != nil {
			return nil, err
		}
		return &freeverbStage{rev: rev}, nil
	})
	mustRegister("plate", func(sampleRate float64) (StereoEffect, error) {
		rev, err := reverb.NewDattorro(sampleRate, 0.05, 0.2, 0.5, int(sampleRate/10))
		if err != nil {
			return nil, err
		}
		return &plateStage{rev: rev, pregain: 0.5}, nil
	})
}
