package stream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
)

// Parameters are the per-block control values of the filter.
type Parameters struct {
	CutoffHz  float64
	Resonance float64
	Weights   ladder.Weights
}

// ParameterSource is polled once per block for the current control values.
type ParameterSource interface {
	Parameters() Parameters
}

// SampleSource supplies mono input. ReadSamples fills up to len(dst) samples
// and returns io.EOF once the stream is exhausted; n may be > 0 alongside
// io.EOF.
type SampleSource interface {
	ReadSamples(dst []float64) (n int, err error)
}

// SampleSink consumes each processed block together with its input, for
// playback or visualisation. Both slices are only valid during the call.
type SampleSink interface {
	WriteSamples(in, out []float64) error
}

// StaticParameters is a ParameterSource that may be updated from another
// goroutine; readers always see a whole Parameters value.
type StaticParameters struct {
	p atomic.Pointer[Parameters]
}

// NewStaticParameters returns a source initialized to p.
func NewStaticParameters(p Parameters) *StaticParameters {
	s := &StaticParameters{}
	s.Set(p)
	return s
}

// Set replaces the published parameters.
func (s *StaticParameters) Set(p Parameters) {
	s.p.Store(&p)
}

// Parameters returns the current parameters.
func (s *StaticParameters) Parameters() Parameters {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return Parameters{}
}

// ParameterFunc adapts a function to ParameterSource.
type ParameterFunc func() Parameters

// Parameters calls f.
func (f ParameterFunc) Parameters() Parameters { return f() }

// SourceFunc adapts a function to SampleSource.
type SourceFunc func(dst []float64) (int, error)

// ReadSamples calls f.
func (f SourceFunc) ReadSamples(dst []float64) (int, error) { return f(dst) }

// SliceSource reads from an in-memory signal and reports io.EOF at its end.
type SliceSource struct {
	data []float64
	pos  int
}

// NewSliceSource returns a source over data. data is not copied.
func NewSliceSource(data []float64) *SliceSource {
	return &SliceSource{data: data}
}

// ReadSamples implements SampleSource.
func (s *SliceSource) ReadSamples(dst []float64) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	n := copy(dst, s.data[s.pos:])
	s.pos += n

	if s.pos >= len(s.data) {
		return n, io.EOF
	}

	return n, nil
}

// BufferSink accumulates input and output in memory.
type BufferSink struct {
	In  []float64
	Out []float64
}

// WriteSamples implements SampleSink.
func (b *BufferSink) WriteSamples(in, out []float64) error {
	b.In = append(b.In, in...)
	b.Out = append(b.Out, out...)
	return nil
}

// ScopeSink writes (input, output) pairs as CSV rows for plotting, keeping
// every decimate-th frame.
type ScopeSink struct {
	w        *csv.Writer
	decimate int
	frame    int
	record   [3]string
}

// NewScopeSink writes a "frame,input,output" header to w and returns the sink.
// decimate values below 1 keep every frame.
func NewScopeSink(w io.Writer, decimate int) (*ScopeSink, error) {
	if decimate < 1 {
		decimate = 1
	}

	s := &ScopeSink{w: csv.NewWriter(w), decimate: decimate}
	if err := s.w.Write([]string{"frame", "input", "output"}); err != nil {
		return nil, fmt.Errorf("scope: write header: %w", err)
	}

	return s, nil
}

// WriteSamples implements SampleSink.
func (s *ScopeSink) WriteSamples(in, out []float64) error {
	for i := range in {
		if s.frame%s.decimate == 0 {
			s.record[0] = strconv.Itoa(s.frame)
			s.record[1] = strconv.FormatFloat(in[i], 'g', -1, 64)
			s.record[2] = strconv.FormatFloat(out[i], 'g', -1, 64)
			if err := s.w.Write(s.record[:]); err != nil {
				return fmt.Errorf("scope: write frame %d: %w", s.frame, err)
			}
		}
		s.frame++
	}

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("scope: flush: %w", err)
	}

	return nil
}
