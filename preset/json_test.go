package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ladder/dsp/filter/ladder"
	"github.com/cwbudde/algo-ladder/dsp/signal"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONAppliesFields(t *testing.T) {
	path := writePreset(t, `{
  "cutoff_hz": 2500,
  "resonance": 0.8,
  "mode": "bp4",
  "compensation_gain": 0.25,
  "saturation": "fast",
  "output_gain": 0.7,
  "input_wav_path": "drums.wav",
  "oscillator": {"waveform": "sine", "frequency_hz": 220, "amplitude": 0.3}
}`)

	p, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, 2500.0, p.CutoffHz)
	assert.Equal(t, 0.8, p.Resonance)
	assert.Equal(t, ladder.ModeBandpass4, p.Mode)
	assert.Nil(t, p.Weights)
	assert.Equal(t, ladder.ModeBandpass4.Weights(), p.MixWeights())
	assert.Equal(t, 0.25, p.CompensationGain)
	assert.Equal(t, ladder.SaturationFast, p.Saturation)
	assert.Equal(t, 0.7, p.OutputGain)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "drums.wav"), p.InputWavPath)
	assert.Equal(t, signal.WaveformSine, p.Waveform)
	assert.Equal(t, 220.0, p.OscillatorHz)
	assert.Equal(t, 0.3, p.Amplitude)
}

func TestLoadJSONKeepsDefaults(t *testing.T) {
	p, err := LoadJSON(writePreset(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultParams(), p)
}

func TestExplicitWeightsOverrideMode(t *testing.T) {
	p, err := LoadJSON(writePreset(t, `{"mode": "hp4", "weights": {"a": 1, "e": -1}}`))
	require.NoError(t, err)

	require.NotNil(t, p.Weights)
	want := ladder.Weights{A: 1, E: -1}
	assert.Equal(t, want, p.MixWeights())
	assert.Equal(t, want, p.StreamParameters().Weights)
}

func TestLoadJSONRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"cutoff":       `{"cutoff_hz": 0}`,
		"resonance":    `{"resonance": 1.5}`,
		"mode":         `{"mode": "notch"}`,
		"compensation": `{"compensation_gain": -1}`,
		"saturation":   `{"saturation": "diode"}`,
		"gain":         `{"output_gain": 0}`,
		"waveform":     `{"oscillator": {"waveform": "square"}}`,
		"frequency":    `{"oscillator": {"frequency_hz": -5}}`,
		"amplitude":    `{"oscillator": {"amplitude": -0.1}}`,
		"syntax":       `{"cutoff_hz": `,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadJSON(writePreset(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFilterOptionsBuildFilter(t *testing.T) {
	p := NewDefaultParams()
	p.CutoffHz = 3000
	p.Resonance = 0.4
	p.Mode = ladder.ModeHighpass2

	f, err := ladder.New(48000, p.FilterOptions()...)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, f.CutoffHz())
	assert.Equal(t, 0.4, f.Resonance())
	assert.Equal(t, ladder.ModeHighpass2.Weights(), f.Weights())
	assert.Equal(t, ladder.DefaultCompensationGain, f.CompensationGain())
}

func TestApplyFileNilArguments(t *testing.T) {
	assert.Error(t, ApplyFile(nil, &File{}))
	assert.NoError(t, ApplyFile(NewDefaultParams(), nil))
}
