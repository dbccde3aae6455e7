// Package halfband provides polyphase IIR half-band filters and a 4x
// oversampler for alias-suppressed nonlinear processing.
//
// The filter splits the signal into two parallel cascades of second-order
// allpass sections whose summed outputs form a steep half-band low-pass.
// Coefficients come from the classic elliptic allpass tables; the order-8
// filter reaches roughly 69 dB stopband rejection with a 0.01 transition
// band.
package halfband

import "fmt"

// allpass is a single second-order allpass section, y = x2 + (x - y2)*a.
type allpass struct {
	a float64

	x0, x1, x2 float64
	y0, y1, y2 float64
}

func (s *allpass) process(input float64) float64 {
	s.x2 = s.x1
	s.x1 = s.x0
	s.x0 = input

	s.y2 = s.y1
	s.y1 = s.y0

	out := s.x2 + (input-s.y2)*s.a
	s.y0 = out

	return out
}

func (s *allpass) reset() {
	s.x0, s.x1, s.x2 = 0, 0, 0
	s.y0, s.y1, s.y2 = 0, 0, 0
}

// cascade is a serial chain of allpass sections sharing one signal path.
type cascade struct {
	stages []allpass
}

func newCascade(coeffs []float64) cascade {
	stages := make([]allpass, len(coeffs))
	for i, a := range coeffs {
		stages[i].a = a
	}
	return cascade{stages: stages}
}

func (c *cascade) process(input float64) float64 {
	out := input
	for i := range c.stages {
		out = c.stages[i].process(out)
	}
	return out
}

func (c *cascade) reset() {
	for i := range c.stages {
		c.stages[i].reset()
	}
}

// coefficient tables per order, steep variants (0.01 transition band).
var steepCoefficients = map[int][2][]float64{
	2: {
		{0.23647102099689224},
		{0.7145421497126001},
	},
	4: {
		{0.12073211751675449, 0.6632020224193995},
		{0.3903621872345006, 0.890786832653497},
	},
	6: {
		{0.1271414136264853, 0.6528245886369117, 0.9176942834328115},
		{0.40056789819445626, 0.8204163891923343, 0.9763114515836773},
	},
	8: {
		{0.07711507983241622, 0.4820706250610472, 0.7968204713315797, 0.9412514277740471},
		{0.2659685265210946, 0.6651041532634957, 0.8841015085506159, 0.9820054141886075},
	},
	10: {
		{0.051457617441190984, 0.35978656070567017, 0.6725475931034693, 0.8590884928249939, 0.9540209867860787},
		{0.18621906251989334, 0.529951372847964, 0.7810257527489514, 0.9141815687605308, 0.985475023014907},
	},
	12: {
		{0.036681502163648017, 0.2746317593794541, 0.56109896978791948, 0.769741833862266, 0.8922608180038789, 0.962094548378084},
		{0.13654762463195771, 0.42313861743656667, 0.6775400499741616, 0.839889624849638, 0.9315419599631839, 0.9878163707328971},
	},
}

// Filter is a polyphase IIR half-band low-pass built from two parallel
// allpass cascades. Not safe for concurrent use.
type Filter struct {
	pathA  cascade
	pathB  cascade
	oldOut float64
	order  int
}

// New returns a half-band filter of the given order. Supported orders are
// 2, 4, 6, 8, 10, and 12 (the order is the total allpass section count
// across both paths, so it must be even).
func New(order int) (*Filter, error) {
	coeffs, ok := steepCoefficients[order]
	if !ok {
		return nil, fmt.Errorf("unsupported half-band order: %d", order)
	}

	return &Filter{
		pathA: newCascade(coeffs[0]),
		pathB: newCascade(coeffs[1]),
		order: order,
	}, nil
}

// Order returns the total allpass section count.
func (f *Filter) Order() int {
	return f.order
}

// ProcessSample filters one sample. The polyphase output sums the first
// path with the one-sample-delayed second path.
func (f *Filter) ProcessSample(input float64) float64 {
	out := (f.pathA.process(input) + f.oldOut) * 0.5
	f.oldOut = f.pathB.process(input)
	return out
}

// ProcessInPlace filters buf sample by sample, overwriting it.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = f.ProcessSample(v)
	}
}

// Reset clears all allpass state.
func (f *Filter) Reset() {
	f.pathA.reset()
	f.pathB.reset()
	f.oldOut = 0
}
