package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-ladder/dsp/core"
	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
	"github.com/cwbudde/algo-ladder/dsp/signal"
	"github.com/cwbudde/algo-ladder/dsp/stream"
	"github.com/cwbudde/algo-ladder/preset"
)

const defaultOscillatorSeconds = 2.0

// excitation returns "impulse" or "noise" when name selects one of the
// generated test signals instead of a wavetable, and "" otherwise.
func excitation(name string) string {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "impulse", "noise":
		return n
	default:
		return ""
	}
}

type renderConfig struct {
	presetPath    string
	sampleRate    int
	duration      float64
	blockSize     int
	cutoffHz      float64
	resonance     float64
	mode          string
	saturation    string
	waveform      string
	seed          int64
	gainDB        float64
	freqHz        float64
	amplitude     float64
	inputPath     string
	stereo        bool
	sweepToHz     float64
	scopePath     string
	scopeDecimate int
	outputPath    string
}

func run(ctx context.Context, cfg renderConfig, log logrus.FieldLogger) error {
	params, err := loadParams(cfg)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"preset":     cfg.presetPath,
		"cutoff_hz":  params.CutoffHz,
		"resonance":  params.Resonance,
		"mode":       params.Mode,
		"saturation": params.Saturation,
		"input":      params.InputWavPath,
		"output":     cfg.outputPath,
	}).Info("rendering")

	if params.InputWavPath != "" && cfg.stereo {
		return renderStereo(cfg, params, log)
	}

	if cfg.stereo {
		return errors.New("-stereo requires -input")
	}

	return renderMono(ctx, cfg, params, log)
}

// loadParams starts from the preset (or defaults) and applies flag overrides.
// NaN or empty flags leave the preset value alone.
func loadParams(cfg renderConfig) (*preset.Params, error) {
	params := preset.NewDefaultParams()
	if cfg.presetPath != "" {
		p, err := preset.LoadJSON(cfg.presetPath)
		if err != nil {
			return nil, err
		}
		params = p
	}

	if !math.IsNaN(cfg.cutoffHz) {
		params.CutoffHz = cfg.cutoffHz
	}
	if !math.IsNaN(cfg.resonance) {
		params.Resonance = cfg.resonance
	}
	if cfg.mode != "" {
		m, err := ladder.ParseMode(cfg.mode)
		if err != nil {
			return nil, err
		}
		params.Mode = m
		params.Weights = nil
	}
	if cfg.saturation != "" {
		s, err := ladder.ParseSaturation(cfg.saturation)
		if err != nil {
			return nil, err
		}
		params.Saturation = s
	}
	if cfg.waveform != "" && excitation(cfg.waveform) == "" {
		w, err := signal.ParseWaveform(cfg.waveform)
		if err != nil {
			return nil, err
		}
		params.Waveform = w
	}
	if !math.IsNaN(cfg.freqHz) {
		params.OscillatorHz = cfg.freqHz
	}
	if !math.IsNaN(cfg.amplitude) {
		params.Amplitude = cfg.amplitude
	}
	if cfg.inputPath != "" {
		params.InputWavPath = cfg.inputPath
	}
	if !math.IsNaN(cfg.gainDB) {
		params.OutputGain = core.DBToLinear(cfg.gainDB)
	}

	return params, nil
}

func renderMono(ctx context.Context, cfg renderConfig, params *preset.Params, log logrus.FieldLogger) error {
	var (
		source     stream.SampleSource
		sampleRate = cfg.sampleRate
		maxFrames  int
	)

	if params.InputWavPath != "" {
		in, err := decodeWAV(params.InputWavPath)
		if err != nil {
			return err
		}

		sampleRate = in.sampleRate
		source = stream.NewStreamerSource(framesStreamer(in.frames))
		if cfg.duration > 0 {
			maxFrames = secondsToFrames(cfg.duration, sampleRate)
		}
	} else {
		seconds := cfg.duration
		if seconds <= 0 {
			seconds = defaultOscillatorSeconds
		}
		maxFrames = secondsToFrames(seconds, sampleRate)

		src, err := generatedSource(cfg, params, sampleRate, maxFrames)
		if err != nil {
			return err
		}
		source = src
	}

	filter, err := ladder.New(float64(sampleRate), params.FilterOptions()...)
	if err != nil {
		return err
	}

	sink := &stream.BufferSink{}
	opts := []stream.DriverOption{
		stream.WithBlockSize(cfg.blockSize),
		stream.WithOutputGain(params.OutputGain),
		stream.WithMaxFrames(maxFrames),
		stream.WithSink(sink),
		stream.WithLogger(log),
	}

	if cfg.scopePath != "" {
		f, err := os.Create(cfg.scopePath)
		if err != nil {
			return fmt.Errorf("create scope file: %w", err)
		}
		defer f.Close()

		scope, err := stream.NewScopeSink(f, cfg.scopeDecimate)
		if err != nil {
			return err
		}
		opts = append(opts, stream.WithSink(scope))
	}

	var driver *stream.Driver
	var controls stream.ParameterSource = stream.NewStaticParameters(params.StreamParameters())
	if !math.IsNaN(cfg.sweepToHz) {
		if maxFrames == 0 {
			return errors.New("-sweep-to needs a known length; set -duration")
		}
		controls = sweepParameters(params.StreamParameters(), cfg.sweepToHz, maxFrames, func() int {
			return driver.Stats().Frames
		})
	}

	driver, err = stream.NewDriver(filter, controls, source, opts...)
	if err != nil {
		return err
	}

	stats, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeWAV(cfg.outputPath, sampleRate, 1, toFloat32(sink.Out)); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":           stats.Frames,
		"seconds":          float64(stats.Frames) / float64(sampleRate),
		"peak_input_dbfs":  core.LinearToDB(stats.PeakInput),
		"peak_output_dbfs": core.LinearToDB(stats.PeakOutput),
	}).Info("wrote " + cfg.outputPath)

	return nil
}

// generatedSource builds the oscillator, impulse or noise input selected by
// -waveform. Impulse and noise are rendered up front for frames samples.
func generatedSource(cfg renderConfig, params *preset.Params, sampleRate, frames int) (stream.SampleSource, error) {
	gen := signal.NewGenerator([]core.ProcessorOption{
		core.WithSampleRate(float64(sampleRate)),
		core.WithBlockSize(cfg.blockSize),
	}, signal.WithSeed(cfg.seed))

	switch excitation(cfg.waveform) {
	case "impulse":
		data, err := gen.Impulse(frames)
		if err != nil {
			return nil, err
		}
		data[0] *= params.Amplitude
		return stream.NewSliceSource(data), nil
	case "noise":
		data, err := gen.WhiteNoise(params.Amplitude, frames)
		if err != nil {
			return nil, err
		}
		return stream.NewSliceSource(data), nil
	default:
		return gen.Oscillator(params.Waveform, params.OscillatorHz, params.Amplitude)
	}
}

func renderStereo(cfg renderConfig, params *preset.Params, log logrus.FieldLogger) error {
	if cfg.scopePath != "" {
		log.Warn("scope output is only written for mono renders")
	}
	if !math.IsNaN(cfg.sweepToHz) {
		log.Warn("cutoff sweep is only applied to mono renders")
	}

	in, err := decodeWAV(params.InputWavPath)
	if err != nil {
		return err
	}

	filter, err := ladder.NewStereo(float64(in.sampleRate), params.FilterOptions()...)
	if err != nil {
		return err
	}

	var source beep.Streamer = stream.NewStreamer(framesStreamer(in.frames), filter, nil)
	if cfg.duration > 0 {
		source = beep.Take(secondsToFrames(cfg.duration, in.sampleRate), source)
	}

	blockSize := max(cfg.blockSize, 1)
	frames := make([][2]float64, blockSize)
	var samples []float32
	peak := 0.0
	for {
		n, ok := source.Stream(frames)
		for _, f := range frames[:n] {
			l := f[0] * params.OutputGain
			r := f[1] * params.OutputGain
			peak = math.Max(peak, math.Max(math.Abs(l), math.Abs(r)))
			samples = append(samples, float32(l), float32(r))
		}
		if !ok {
			break
		}
	}
	if err := source.Err(); err != nil {
		return fmt.Errorf("read %s: %w", params.InputWavPath, err)
	}

	if err := writeWAV(cfg.outputPath, in.sampleRate, 2, samples); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":           len(samples) / 2,
		"peak_output_dbfs": core.LinearToDB(peak),
	}).Info("wrote " + cfg.outputPath)

	return nil
}

// sweepParameters moves the cutoff exponentially from base.CutoffHz to toHz
// over frames. position reports how many frames have been rendered.
func sweepParameters(base stream.Parameters, toHz float64, frames int, position func() int) stream.ParameterSource {
	from := core.Clamp(base.CutoffHz, ladder.MinCutoffHz, math.MaxFloat64)
	to := core.Clamp(toHz, ladder.MinCutoffHz, math.MaxFloat64)

	return stream.ParameterFunc(func() stream.Parameters {
		t := core.Clamp(float64(position())/float64(frames), 0, 1)
		p := base
		p.CutoffHz = from * math.Pow(to/from, t)
		return p
	})
}

// wavData is a decoded PCM file. Mono files are duplicated to both channels;
// channels beyond the second are dropped.
type wavData struct {
	frames     [][2]float64
	sampleRate int
	channels   int
}

// decodeWAV reads an integer PCM file and scales samples by the full-scale
// value of their bit depth, so 16-bit 0x4000 reads as 0.5.
func decodeWAV(path string) (wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return wavData{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return wavData{}, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return wavData{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return wavData{}, fmt.Errorf("invalid wav buffer: %s", path)
	}

	depth := buf.SourceBitDepth
	switch depth {
	case 16, 24, 32:
	default:
		return wavData{}, fmt.Errorf("decode %s: unsupported bit depth %d", path, depth)
	}
	scale := 1 / float64(int64(1)<<(depth-1))

	ch := buf.Format.NumChannels
	out := wavData{
		frames:     make([][2]float64, len(buf.Data)/ch),
		sampleRate: buf.Format.SampleRate,
		channels:   ch,
	}
	for i := range out.frames {
		l := float64(buf.Data[i*ch]) * scale
		r := l
		if ch > 1 {
			r = float64(buf.Data[i*ch+1]) * scale
		}
		out.frames[i] = [2]float64{l, r}
	}

	return out, nil
}

// framesStreamer plays frames once as a beep.Streamer.
func framesStreamer(frames [][2]float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(frames) {
			return 0, false
		}
		n := copy(samples, frames[pos:])
		pos += n
		return n, true
	})
}

func writeWAV(path string, sampleRate, channels int, samples []float32) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	// 16-bit PCM (audioFormat = 1).
	encoder := wav.NewEncoder(file, sampleRate, 16, channels, 1)

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return nil
}

func secondsToFrames(seconds float64, sampleRate int) int {
	return max(int(seconds*float64(sampleRate)), 1)
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(core.Clamp(v, -1, 1))
	}
	return out
}
