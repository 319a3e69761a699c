package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-ladder/dsp/core"
	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
)

// ErrNoSource is returned by NewDriver when no input source is given.
var ErrNoSource = errors.New("stream: no sample source")

// Stats summarizes a driver run.
type Stats struct {
	Blocks           int
	Frames           int
	ParameterChanges int
	PeakInput        float64
	PeakOutput       float64
	Sanitized        int // non-finite input samples replaced by 0
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithBlockSize sets frames per block. Values below 1 are ignored.
func WithBlockSize(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.blockSize = n
		}
	}
}

// WithOutputGain scales the filtered block before it reaches the sinks.
func WithOutputGain(gain float64) DriverOption {
	return func(d *Driver) {
		d.outputGain = core.Sanitize(gain, 1)
	}
}

// WithMaxFrames stops the run after n frames; 0 means unlimited.
func WithMaxFrames(n int) DriverOption {
	return func(d *Driver) {
		if n >= 0 {
			d.maxFrames = n
		}
	}
}

// WithSink adds a sink. Sinks are called in the order they were added.
func WithSink(s SampleSink) DriverOption {
	return func(d *Driver) {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(l logrus.FieldLogger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// Driver is the block loop between collaborators and a ladder filter. It is
// the single writer of the filter's parameters and state.
type Driver struct {
	filter *ladder.Filter
	params ParameterSource
	source SampleSource
	sinks  []SampleSink

	blockSize  int
	outputGain float64
	maxFrames  int
	log        logrus.FieldLogger

	in  []float64
	out []float64

	last    Parameters
	hasLast bool
	stats   Stats
}

// NewDriver wires filter to its collaborators. params may be nil, in which
// case the filter keeps the parameters it was built with.
func NewDriver(filter *ladder.Filter, params ParameterSource, source SampleSource, opts ...DriverOption) (*Driver, error) {
	if filter == nil {
		return nil, errors.New("stream: nil filter")
	}

	if source == nil {
		return nil, ErrNoSource
	}

	d := &Driver{
		filter:     filter,
		params:     params,
		source:     source,
		blockSize:  core.DefaultProcessorConfig().BlockSize,
		outputGain: 1,
		log:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// Stats returns counters for the blocks processed so far.
func (d *Driver) Stats() Stats { return d.stats }

// RunBlock processes one block. It returns the number of frames processed and
// io.EOF once the source is exhausted.
func (d *Driver) RunBlock() (int, error) {
	want := d.blockSize
	if d.maxFrames > 0 {
		left := d.maxFrames - d.stats.Frames
		if left <= 0 {
			return 0, io.EOF
		}
		want = min(want, left)
	}

	d.in = core.EnsureLen(d.in, d.blockSize)
	d.out = core.EnsureLen(d.out, d.blockSize)

	n, err := d.source.ReadSamples(d.in[:want])
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("stream: read block %d: %w", d.stats.Blocks, err)
	}

	eof := errors.Is(err, io.EOF)
	if n > 0 {
		if perr := d.process(d.in[:n], d.out[:n]); perr != nil {
			return n, perr
		}
	}

	if eof || (d.maxFrames > 0 && d.stats.Frames >= d.maxFrames) {
		return n, io.EOF
	}

	return n, nil
}

func (d *Driver) process(in, out []float64) error {
	d.applyParameters()

	if bad := core.SanitizeInPlace(in); bad > 0 {
		d.stats.Sanitized += bad
		d.log.WithFields(logrus.Fields{
			"block":   d.stats.Blocks,
			"samples": bad,
		}).Warn("non-finite input replaced with silence")
	}

	d.filter.ProcessTo(out, in)
	if d.outputGain != 1 {
		f64.Scale(out, out, d.outputGain)
	}

	for i, s := range d.sinks {
		if err := s.WriteSamples(in, out); err != nil {
			return fmt.Errorf("stream: sink %d at block %d: %w", i, d.stats.Blocks, err)
		}
	}

	d.stats.Blocks++
	d.stats.Frames += len(in)
	d.stats.PeakInput = math.Max(d.stats.PeakInput, peakAbs(in))
	d.stats.PeakOutput = math.Max(d.stats.PeakOutput, peakAbs(out))

	return nil
}

func (d *Driver) applyParameters() {
	if d.params == nil {
		return
	}

	p := d.params.Parameters()
	if d.hasLast && p == d.last {
		return
	}

	d.filter.SetParameters(p.CutoffHz, p.Resonance, p.Weights)
	d.last = p
	d.hasLast = true
	d.stats.ParameterChanges++

	applied := d.filter.Parameters()
	d.log.WithFields(logrus.Fields{
		"block":     d.stats.Blocks,
		"cutoff_hz": applied.CutoffHz,
		"resonance": applied.Resonance,
		"weights":   applied.Weights,
	}).Debug("ladder parameters updated")
}

// Run processes blocks until the source reports io.EOF, the frame limit is
// reached, or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(d.filter.SampleRate()), core.WithBlockSize(d.blockSize))
	d.log.WithFields(logrus.Fields{
		"sample_rate":     cfg.SampleRate,
		"block_size":      cfg.BlockSize,
		"control_rate_hz": cfg.ControlRateHz(),
		"max_frames":      d.maxFrames,
	}).Info("ladder stream started")

	for {
		if err := ctx.Err(); err != nil {
			return d.stats, err
		}

		_, err := d.RunBlock()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			d.log.WithError(err).Error("ladder stream failed")
			return d.stats, err
		}
	}

	d.log.WithFields(logrus.Fields{
		"blocks":      d.stats.Blocks,
		"frames":      d.stats.Frames,
		"peak_output": d.stats.PeakOutput,
	}).Info("ladder stream finished")

	return d.stats, nil
}

func peakAbs(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	return math.Max(floats.Max(buf), -floats.Min(buf))
}
