// Package effectchain composes stereo effects into ordered processing
// chains, with a registry for constructing effects by name.
package effectchain

import (
	"fmt"
)

// StereoEffect is the processing surface every chained effect exposes.
type StereoEffect interface {
	ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64)
	Reset()
}

// Chain runs a fixed sequence of stereo effects in order. It owns no
// buffers and processes frame by frame, so it is safe on the audio path.
type Chain struct {
	sampleRate float64
	stages     []StereoEffect
	names      []string
	bypass     []bool
}

// New returns an empty chain for the given sample rate.
func New(sampleRate float64) (*Chain, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("chain sample rate must be > 0: %f", sampleRate)
	}
	return &Chain{sampleRate: sampleRate}, nil
}

// Append adds an effect under the given name at the end of the chain.
func (c *Chain) Append(name string, effect StereoEffect) error {
	if effect == nil {
		return fmt.Errorf("chain stage %q is nil", name)
	}
	for _, existing := range c.names {
		if existing == name {
			return fmt.Errorf("chain stage %q already present", name)
		}
	}
	c.stages = append(c.stages, effect)
	c.names = append(c.names, name)
	c.bypass = append(c.bypass, false)
	return nil
}

// AppendFromRegistry constructs the named effect with its registered
// factory and appends it.
func (c *Chain) AppendFromRegistry(name string) error {
	effect, err := Build(name, c.sampleRate)
	if err != nil {
		return err
	}
	return c.Append(name, effect)
}

// SetBypassed toggles a stage in or out of the signal path without
// removing it.
func (c *Chain) SetBypassed(name string, bypassed bool) error {
	for i, existing := range c.names {
		if existing == name {
			c.bypass[i] = bypassed
			return nil
		}
	}
	return fmt.Errorf("chain has no stage %q", name)
}

// Stage returns the effect registered under name, for parameter access.
func (c *Chain) Stage(name string) (StereoEffect, error) {
	for i, existing := range c.names {
		if existing == name {
			return c.stages[i], nil
		}
	}
	return nil, fmt.Errorf("chain has no stage %q", name)
}

// Names returns the stage names in processing order.
func (c *Chain) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// ProcessFrame runs one stereo frame through every non-bypassed stage.
func (c *Chain) ProcessFrame(inLeft, inRight float64) (outLeft, outRight float64) {
	outLeft, outRight = inLeft, inRight
	for i, stage := range c.stages {
		if c.bypass[i] {
			continue
		}
		outLeft, outRight = stage.ProcessFrame(outLeft, outRight)
	}
	return outLeft, outRight
}

// ProcessBlocks processes both channel buffers in place.
func (c *Chain) ProcessBlocks(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		left[i], right[i] = c.ProcessFrame(left[i], right[i])
	}
}

// Reset resets every stage, bypassed or not.
func (c *Chain) Reset() {
	for _, stage := range c.stages {
		stage.Reset()
	}
}

// SampleRate returns the chain's sample rate in Hz.
func (c *Chain) SampleRate() float64 {
	return c.sampleRate
}
