package biquad

// StereoFilter runs two independent mono sections whose design parameters
// are updated in lockstep.
type StereoFilter struct {
	left, right *Filter
}

// NewStereo returns a stereo filter pair with shared design parameters.
func NewStereo(typ Type, fc, q, gainDB float64) (*StereoFilter, error) {
	left, err := New(typ, fc, q, gainDB)
	if err != nil {
		return nil, err
	}

	right, err := New(typ, fc, q, gainDB)
	if err != nil {
		return nil, err
	}

	return &StereoFilter{left: left, right: right}, nil
}

// SetType selects the response shape on both channels.
func (s *StereoFilter) SetType(typ Type) error {
	if err := s.left.SetType(typ); err != nil {
		return err
	}
	return s.right.SetType(typ)
}

// SetFc sets the normalized cutoff on both channels.
func (s *StereoFilter) SetFc(fc float64) error {
	if err := s.left.SetFc(fc); err != nil {
		return err
	}
	return s.right.SetFc(fc)
}

// SetQ sets the quality factor on both channels.
func (s *StereoFilter) SetQ(q float64) error {
	if err := s.left.SetQ(q); err != nil {
		return err
	}
	return s.right.SetQ(q)
}

// SetPeakGainDB sets the peak gain on both channels.
func (s *StereoFilter) SetPeakGainDB(gainDB float64) error {
	if err := s.left.SetPeakGainDB(gainDB); err != nil {
		return err
	}
	return s.right.SetPeakGainDB(gainDB)
}

// Configure sets all design parameters on both channels.
func (s *StereoFilter) Configure(typ Type, fc, q, gainDB float64) error {
	if err := s.left.Configure(typ, fc, q, gainDB); err != nil {
		return err
	}
	return s.right.Configure(typ, fc, q, gainDB)
}

// ProcessFrame filters one stereo frame.
func (s *StereoFilter) ProcessFrame(left, right float64) (outLeft, outRight float64) {
	return s.left.ProcessSample(left), s.right.ProcessSample(right)
}

// ProcessBlocks filters both channel buffers in-place.
func (s *StereoFilter) ProcessBlocks(left, right []float64) {
	s.left.ProcessBlock(left)
	s.right.ProcessBlock(right)
}

// Reset clears the unit-delay state of both channels.
func (s *StereoFilter) Reset() {
	s.left.Reset()
	s.right.Reset()
}
