package signal

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// Generator creates deterministic test and excitation signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Impulse returns a unit-amplitude impulse at sample 0 followed by silence.
func (g *Generator) Impulse(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	out[0] = 1
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 || !core.IsFinite(amplitude) {
		return nil, fmt.Errorf("noise amplitude must be >= 0 and finite: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Oscillator returns a wavetable oscillator for waveform at the generator
// sample rate.
func (g *Generator) Oscillator(waveform Waveform, freqHz, amplitude float64) (*Wavetable, error) {
	table, err := waveform.Table(DefaultTableSize)
	if err != nil {
		return nil, err
	}

	w, err := NewWavetable(g.cfg.SampleRate, table)
	if err != nil {
		return nil, err
	}

	w.SetFrequency(freqHz)
	w.SetAmplitude(amplitude)

	return w, nil
}
