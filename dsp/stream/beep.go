package stream

import (
	"io"

	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
)

// Streamer filters a stereo beep.Streamer through a ladder.Stereo. When a
// ParameterSource is attached it is polled once per Stream call, so a beep
// buffer plays the role of a block.
type Streamer struct {
	input  beep.Streamer
	filter *ladder.Stereo
	params ParameterSource
	last   Parameters
	polled bool
}

// NewStreamer wraps input. params may be nil.
func NewStreamer(input beep.Streamer, filter *ladder.Stereo, params ParameterSource) *Streamer {
	return &Streamer{input: input, filter: filter, params: params}
}

// Filter returns the wrapped stereo filter.
func (s *Streamer) Filter() *ladder.Stereo { return s.filter }

// Stream implements beep.Streamer.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.input.Stream(samples)

	if s.params != nil {
		p := s.params.Parameters()
		if !s.polled || p != s.last {
			s.filter.SetParameters(p.CutoffHz, p.Resonance, p.Weights)
			s.last = p
			s.polled = true
		}
	}

	s.filter.ProcessFramesInPlace(samples[:n])

	return n, ok
}

// Err implements beep.Streamer.
func (s *Streamer) Err() error {
	return s.input.Err()
}

// StreamerSource reads a beep.Streamer as a mono SampleSource by averaging
// the two channels.
type StreamerSource struct {
	input  beep.Streamer
	frames [][2]float64
}

// NewStreamerSource wraps input.
func NewStreamerSource(input beep.Streamer) *StreamerSource {
	return &StreamerSource{input: input}
}

// ReadSamples implements SampleSource.
func (s *StreamerSource) ReadSamples(dst []float64) (int, error) {
	if cap(s.frames) < len(dst) {
		s.frames = make([][2]float64, len(dst))
	}
	frames := s.frames[:len(dst)]

	n, ok := s.input.Stream(frames)
	for i := range n {
		dst[i] = 0.5 * (frames[i][0] + frames[i][1])
	}

	if !ok {
		if err := s.input.Err(); err != nil {
			return n, err
		}
		return n, io.EOF
	}

	return n, nil
}
