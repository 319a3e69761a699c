package ladder

import "github.com/cwbudde/algo-ladder/dsp/core"

// Stereo runs one cascade per channel under a single shared parameter
// snapshot, so both channels always switch parameters on the same sample.
type Stereo struct {
	controls

	left  Cascade
	right Cascade
}

// NewStereo constructs a stereo filter with independent left/right state.
func NewStereo(sampleRate float64, opts ...Option) (*Stereo, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	s := &Stereo{
		left:  Cascade{compensationGain: cfg.compensationGain, saturation: cfg.saturation},
		right: Cascade{compensationGain: cfg.compensationGain, saturation: cfg.saturation},
	}
	s.init(sampleRate, cfg)

	return s, nil
}

// Reset clears both channel states.
func (s *Stereo) Reset() {
	s.resetPending.Store(false)
	s.left.Reset()
	s.right.Reset()
}

// State returns copies of the left and right cascade states.
func (s *Stereo) State() (left, right State) {
	return s.left.State(), s.right.State()
}

// ProcessSample processes one stereo frame.
func (s *Stereo) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut float64) {
	if s.takeReset() {
		s.left.Reset()
		s.right.Reset()
	}

	p := s.current.Load()
	leftOut = Mix(s.left.ProcessSample(core.Sanitize(leftIn, 0), &p.Coefficients), p.Weights)
	rightOut = Mix(s.right.ProcessSample(core.Sanitize(rightIn, 0), &p.Coefficients), p.Weights)

	return leftOut, rightOut
}

// ProcessInPlace processes planar buffers in place.
func (s *Stereo) ProcessInPlace(left, right []float64) {
	n := len(left)
	if n == 0 {
		return
	}

	_ = right[n-1]

	for i := range n {
		left[i], right[i] = s.ProcessSample(left[i], right[i])
	}
}

// ProcessFramesInPlace processes interleaved [left, right] frames in place.
func (s *Stereo) ProcessFramesInPlace(frames [][2]float64) {
	for i := range frames {
		frames[i][0], frames[i][1] = s.ProcessSample(frames[i][0], frames[i][1])
	}
}
