// Package preset loads ladder filter patches from JSON files.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-ladder/dsp/core"
	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
	"github.com/cwbudde/algo-ladder/dsp/signal"
	"github.com/cwbudde/algo-ladder/dsp/stream"
)

// Params is a complete filter patch plus the test source that drives it.
type Params struct {
	CutoffHz         float64
	Resonance        float64
	Mode             ladder.Mode
	Weights          *ladder.Weights // overrides Mode when set
	CompensationGain float64
	Saturation       ladder.Saturation

	Waveform     signal.Waveform
	OscillatorHz float64
	Amplitude    float64
	InputWavPath string // replaces the oscillator when set

	OutputGain float64
}

// NewDefaultParams returns the patch the render tool starts from.
func NewDefaultParams() *Params {
	return &Params{
		CutoffHz:         1000,
		Resonance:        0,
		Mode:             ladder.ModeLowpass4,
		CompensationGain: ladder.DefaultCompensationGain,
		Saturation:       ladder.SaturationTanh,
		Waveform:         signal.WaveformSawtooth,
		OscillatorHz:     110,
		Amplitude:        0.5,
		OutputGain:       1,
	}
}

// MixWeights returns the explicit weights or those of Mode.
func (p *Params) MixWeights() ladder.Weights {
	if p.Weights != nil {
		return *p.Weights
	}
	return p.Mode.Weights()
}

// FilterOptions converts the patch to constructor options.
func (p *Params) FilterOptions() []ladder.Option {
	return []ladder.Option{
		ladder.WithCutoffHz(p.CutoffHz),
		ladder.WithResonance(p.Resonance),
		ladder.WithWeights(p.MixWeights()),
		ladder.WithCompensationGain(p.CompensationGain),
		ladder.WithSaturation(p.Saturation),
	}
}

// StreamParameters returns the control values a driver polls.
func (p *Params) StreamParameters() stream.Parameters {
	return stream.Parameters{
		CutoffHz:  p.CutoffHz,
		Resonance: p.Resonance,
		Weights:   p.MixWeights(),
	}
}

// File is the JSON schema for ladder presets. Absent fields keep defaults.
type File struct {
	CutoffHz         *float64       `json:"cutoff_hz"`
	Resonance        *float64       `json:"resonance"`
	Mode             string         `json:"mode"`
	Weights          *WeightSetting `json:"weights"`
	CompensationGain *float64       `json:"compensation_gain"`
	Saturation       string         `json:"saturation"`
	OutputGain       *float64       `json:"output_gain"`
	Oscillator       *OscSetting    `json:"oscillator"`
	InputWavPath     string         `json:"input_wav_path"`
}

// WeightSetting is the mixer section of a preset file.
type WeightSetting struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
}

// OscSetting is a partial oscillator override.
type OscSetting struct {
	Waveform  string   `json:"waveform"`
	Frequency *float64 `json:"frequency_hz"`
	Amplitude *float64 `json:"amplitude"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}

	p := NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, err)
	}

	if p.InputWavPath != "" && !filepath.IsAbs(p.InputWavPath) {
		p.InputWavPath = filepath.Clean(filepath.Join(filepath.Dir(path), p.InputWavPath))
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
// Cutoff and resonance are only range-checked loosely here; the filter
// clamps them against the sample rate.
func ApplyFile(dst *Params, f *File) error {
	if dst == nil {
		return errors.New("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.CutoffHz != nil {
		if !core.IsFinite(*f.CutoffHz) || *f.CutoffHz <= 0 {
			return fmt.Errorf("cutoff_hz must be > 0")
		}
		dst.CutoffHz = *f.CutoffHz
	}
	if f.Resonance != nil {
		if !core.IsFinite(*f.Resonance) || *f.Resonance < 0 || *f.Resonance > ladder.MaxResonance {
			return fmt.Errorf("resonance must be in [0,%g]", ladder.MaxResonance)
		}
		dst.Resonance = *f.Resonance
	}
	if f.Mode != "" {
		m, err := ladder.ParseMode(f.Mode)
		if err != nil {
			return err
		}
		dst.Mode = m
		dst.Weights = nil
	}
	if f.Weights != nil {
		w := ladder.Weights{A: f.Weights.A, B: f.Weights.B, C: f.Weights.C, D: f.Weights.D, E: f.Weights.E}
		if !w.IsFinite() {
			return errors.New("weights must be finite")
		}
		dst.Weights = &w
	}
	if f.CompensationGain != nil {
		if !core.IsFinite(*f.CompensationGain) || *f.CompensationGain < 0 {
			return fmt.Errorf("compensation_gain must be >= 0")
		}
		dst.CompensationGain = *f.CompensationGain
	}
	if f.Saturation != "" {
		s, err := ladder.ParseSaturation(f.Saturation)
		if err != nil {
			return err
		}
		dst.Saturation = s
	}
	if f.OutputGain != nil {
		if !core.IsFinite(*f.OutputGain) || *f.OutputGain <= 0 {
			return fmt.Errorf("output_gain must be > 0")
		}
		dst.OutputGain = *f.OutputGain
	}
	if f.InputWavPath != "" {
		dst.InputWavPath = strings.TrimSpace(f.InputWavPath)
	}

	if o := f.Oscillator; o != nil {
		if o.Waveform != "" {
			w, err := signal.ParseWaveform(o.Waveform)
			if err != nil {
				return err
			}
			dst.Waveform = w
		}
		if o.Frequency != nil {
			if !core.IsFinite(*o.Frequency) || *o.Frequency <= 0 {
				return fmt.Errorf("oscillator.frequency_hz must be > 0")
			}
			dst.OscillatorHz = *o.Frequency
		}
		if o.Amplitude != nil {
			if !core.IsFinite(*o.Amplitude) || *o.Amplitude < 0 {
				return fmt.Errorf("oscillator.amplitude must be >= 0")
			}
			dst.Amplitude = *o.Amplitude
		}
	}
	return nil
}
