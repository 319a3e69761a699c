package stream

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
	"github.com/cwbudde/algo-ladder/internal/testutil"
)

func newTestFilter(t *testing.T, opts ...ladder.Option) *ladder.Filter {
	t.Helper()
	f, err := ladder.New(44100, opts...)
	require.NoError(t, err)
	return f
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDriverMatchesDirectProcessing(t *testing.T) {
	in := testutil.Noise(5, 0.8, 1000)
	params := NewStaticParameters(Parameters{CutoffHz: 1200, Resonance: 0.6, Weights: ladder.ModeBandpass2.Weights()})

	sink := &BufferSink{}
	d, err := NewDriver(newTestFilter(t), params, NewSliceSource(in),
		WithBlockSize(64), WithSink(sink), WithLogger(quietLogger()))
	require.NoError(t, err)

	stats, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1000, stats.Frames)
	assert.Equal(t, 16, stats.Blocks)
	assert.Equal(t, 1, stats.ParameterChanges)

	ref := newTestFilter(t)
	ref.SetParameters(1200, 0.6, ladder.ModeBandpass2.Weights())
	want := make([]float64, len(in))
	ref.ProcessTo(want, in)

	assert.Equal(t, in, sink.In)
	testutil.RequireSliceNearlyEqual(t, sink.Out, want, 0)
	assert.InDelta(t, testutil.MaxAbs(want), stats.PeakOutput, 0)
}

func TestDriverPollsParametersPerBlock(t *testing.T) {
	calls := 0
	params := ParameterFunc(func() Parameters {
		calls++
		return Parameters{CutoffHz: 300 + float64(calls)*100, Resonance: 0.2, Weights: ladder.ModeLowpass4.Weights()}
	})

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	d, err := NewDriver(newTestFilter(t), params, NewSliceSource(make([]float64, 40)),
		WithBlockSize(16), WithLogger(logger))
	require.NoError(t, err)

	stats, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, stats.ParameterChanges)

	updates := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "ladder parameters updated" {
			updates++
			assert.Equal(t, logrus.DebugLevel, e.Level)
		}
	}
	assert.Equal(t, 3, updates)
	assert.Equal(t, "ladder stream finished", hook.LastEntry().Message)
}

func TestDriverOutputGainAndMaxFrames(t *testing.T) {
	osc := SourceFunc(func(dst []float64) (int, error) {
		for i := range dst {
			dst[i] = 0.5
		}
		return len(dst), nil
	})

	sink := &BufferSink{}
	d, err := NewDriver(newTestFilter(t, ladder.WithWeights(ladder.Weights{A: 1})), nil, osc,
		WithBlockSize(32), WithMaxFrames(100), WithOutputGain(2), WithSink(sink), WithLogger(quietLogger()))
	require.NoError(t, err)

	stats, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, stats.Frames)
	require.Len(t, sink.Out, 100)
	// Weight A passes the saturated drive; with zero resonance that is tanh(0.5).
	for _, v := range sink.Out {
		assert.InDelta(t, 2*0.46211715726000974, v, 1e-12)
	}
}

func TestDriverStopsOnContextCancel(t *testing.T) {
	endless := SourceFunc(func(dst []float64) (int, error) { return len(dst), nil })

	d, err := NewDriver(newTestFilter(t), nil, endless, WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriverPropagatesErrors(t *testing.T) {
	boom := errors.New("device unplugged")

	broken := SourceFunc(func([]float64) (int, error) { return 0, boom })
	d, err := NewDriver(newTestFilter(t), nil, broken, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = d.Run(context.Background())
	assert.ErrorIs(t, err, boom)

	badSink := sinkFunc(func(in, out []float64) error { return boom })
	d, err = NewDriver(newTestFilter(t), nil, NewSliceSource(make([]float64, 8)),
		WithSink(badSink), WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = d.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNewDriverValidation(t *testing.T) {
	_, err := NewDriver(nil, nil, NewSliceSource(nil))
	assert.Error(t, err)

	_, err = NewDriver(newTestFilter(t), nil, nil)
	assert.ErrorIs(t, err, ErrNoSource)
}

type sinkFunc func(in, out []float64) error

func (f sinkFunc) WriteSamples(in, out []float64) error { return f(in, out) }

func TestDriverSanitizesNonFiniteInput(t *testing.T) {
	in := []float64{0.5, math.NaN(), -0.25, math.Inf(1), math.Inf(-1), 0.1}

	logger, hook := test.NewNullLogger()
	sink := &BufferSink{}
	d, err := NewDriver(newTestFilter(t), nil, NewSliceSource(in),
		WithBlockSize(4), WithSink(sink), WithLogger(logger))
	require.NoError(t, err)

	stats, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Sanitized)
	assert.Equal(t, []float64{0.5, 0, -0.25, 0, 0, 0.1}, sink.In)
	assert.Equal(t, 0.5, stats.PeakInput)
	testutil.RequireFinite(t, sink.Out)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings, "one warning per affected block")
}

func TestDriverReusesBlockBuffers(t *testing.T) {
	src := SourceFunc(func(dst []float64) (int, error) {
		for i := range dst {
			dst[i] = 0.1
		}
		return len(dst), nil
	})

	d, err := NewDriver(newTestFilter(t), nil, src, WithBlockSize(32), WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = d.RunBlock()
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(50, func() {
		if _, err := d.RunBlock(); err != nil {
			t.Fatal(err)
		}
	})
	assert.Zero(t, allocs)
}

func TestPeakAbs(t *testing.T) {
	assert.Zero(t, peakAbs(nil))
	assert.Equal(t, 0.75, peakAbs([]float64{0.2, -0.75, 0.5}))
	assert.Equal(t, 0.5, peakAbs([]float64{0.2, 0.5}))
	assert.Equal(t, 0.3, peakAbs([]float64{-0.3, -0.1}))
}

func TestDriverLogsControlRate(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d, err := NewDriver(newTestFilter(t), nil, NewSliceSource(make([]float64, 10)),
		WithBlockSize(441), WithLogger(logger))
	require.NoError(t, err)

	_, err = d.Run(context.Background())
	require.NoError(t, err)

	var started *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "ladder stream started" {
			started = e
		}
	}
	require.NotNil(t, started)
	assert.Equal(t, 100.0, started.Data["control_rate_hz"])
	assert.Equal(t, 441, started.Data["block_size"])
}
