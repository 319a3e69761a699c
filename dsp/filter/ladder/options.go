package ladder

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

const (
	defaultCutoffHz  = 1000.0
	defaultResonance = 0.0

	// MinCutoffHz is the lowest cutoff accepted by SetParameters.
	MinCutoffHz = 1.0
	// MaxCutoffRatio bounds the cutoff to this fraction of the sample rate,
	// just below Nyquist where the tuning polynomial still yields a stable
	// stage pole.
	MaxCutoffRatio = 0.49
	// MaxResonance approaches self-oscillation.
	MaxResonance = 1.0
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	cutoffHz         float64
	resonance        float64
	weights          Weights
	compensationGain float64
	saturation       Saturation
}

func defaultConfig() config {
	return config{
		cutoffHz:         defaultCutoffHz,
		resonance:        defaultResonance,
		weights:          ModeLowpass4.Weights(),
		compensationGain: DefaultCompensationGain,
		saturation:       SaturationTanh,
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// WithCutoffHz sets the initial cutoff. Must be finite and > 0; it is then
// clamped to [MinCutoffHz, MaxCutoffRatio·sampleRate].
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(cutoffHz) || cutoffHz <= 0 {
			return fmt.Errorf("ladder: cutoff must be > 0 and finite: %f", cutoffHz)
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets the initial normalized resonance in [0, 1].
func WithResonance(resonance float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(resonance, 0, MaxResonance, "resonance"); err != nil {
			return err
		}

		cfg.resonance = resonance

		return nil
	}
}

// WithWeights sets the initial tap weights.
func WithWeights(w Weights) Option {
	return func(cfg *config) error {
		if !w.IsFinite() {
			return fmt.Errorf("ladder: weights must be finite: %+v", w)
		}

		cfg.weights = w

		return nil
	}
}

// WithMode sets the initial tap weights from a named mode.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !validMode(mode) {
			return fmt.Errorf("ladder: invalid mode: %d", mode)
		}

		cfg.weights = mode.Weights()

		return nil
	}
}

// WithCompensationGain sets the passband compensation gain (default 0.5).
// Must be finite and >= 0.
func WithCompensationGain(gain float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(gain, 0, math.Inf(1), "compensation gain"); err != nil {
			return err
		}

		cfg.compensationGain = gain

		return nil
	}
}

// WithSaturation selects the feedback nonlinearity.
func WithSaturation(s Saturation) Option {
	return func(cfg *config) error {
		if !validSaturation(s) {
			return fmt.Errorf("ladder: invalid saturation: %d", s)
		}

		cfg.saturation = s

		return nil
	}
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !core.IsFinite(value) {
		return fmt.Errorf("ladder: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("ladder: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}

func validateSampleRate(sampleRate float64) error {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("ladder: sample rate must be > 0 and finite: %f", sampleRate)
	}

	return nil
}
