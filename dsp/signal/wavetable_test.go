package signal

import (
	"math"
	"testing"
)

func TestWaveformTables(t *testing.T) {
	saw, err := WaveformSawtooth.Table(DefaultTableSize)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if saw[0] != -1 || saw[len(saw)-1] != 1 {
		t.Fatalf("sawtooth endpoints = %v, %v", saw[0], saw[len(saw)-1])
	}

	sine, err := WaveformSine.Table(4)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	want := []float64{0, 1, 0, -1}
	for i := range want {
		if math.Abs(sine[i]-want[i]) > 1e-12 {
			t.Fatalf("sine[%d] = %v, want %v", i, sine[i], want[i])
		}
	}

	if _, err := WaveformSine.Table(1); err == nil {
		t.Fatal("expected error for tiny table")
	}
}

func TestParseWaveform(t *testing.T) {
	for name, want := range map[string]Waveform{"sine": WaveformSine, "SAW": WaveformSawtooth, "sawtooth": WaveformSawtooth} {
		got, err := ParseWaveform(name)
		if err != nil || got != want {
			t.Fatalf("ParseWaveform(%q) = %v, %v", name, got, err)
		}
	}

	if _, err := ParseWaveform("square"); err == nil {
		t.Fatal("expected error for unsupported waveform")
	}

	if WaveformSawtooth.String() != "sawtooth" || Waveform(9).String() != "unknown" {
		t.Fatal("unexpected waveform names")
	}
}

func TestWavetableInterpolatesAndWraps(t *testing.T) {
	// A four-entry table read at a quarter of its natural rate steps by 0.5.
	w, err := NewWavetable(8, []float64{0, 1, 0, -1})
	if err != nil {
		t.Fatalf("NewWavetable() error = %v", err)
	}
	w.SetFrequency(1)

	got := make([]float64, 10)
	if n, err := w.ReadSamples(got); err != nil || n != len(got) {
		t.Fatalf("ReadSamples() = %d, %v", n, err)
	}

	want := []float64{0, 0.5, 1, 0.5, 0, -0.5, -1, -0.5, 0, 0.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWavetableSineFrequency(t *testing.T) {
	const sr = 44100.0

	table, err := WaveformSine.Table(DefaultTableSize)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}

	w, err := NewWavetable(sr, table)
	if err != nil {
		t.Fatalf("NewWavetable() error = %v", err)
	}
	w.SetFrequency(441)
	w.SetAmplitude(0.5)

	// 441 Hz at 44.1 kHz is exactly 100 samples per cycle.
	for i := range 1000 {
		got := w.Process()
		want := 0.5 * math.Sin(2*math.Pi*float64(i)/100)
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}

	w.Reset()
	if got := w.Process(); got != 0 {
		t.Fatalf("first sample after Reset = %v, want 0", got)
	}
}

func TestWavetableNegativeFrequency(t *testing.T) {
	w, err := NewWavetable(4, []float64{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewWavetable() error = %v", err)
	}
	w.SetFrequency(-1)

	want := []float64{0, 3, 2, 1, 0}
	for i, v := range want {
		if got := w.Process(); got != v {
			t.Fatalf("sample %d = %v, want %v", i, got, v)
		}
	}
}

func TestNewWavetableValidation(t *testing.T) {
	if _, err := NewWavetable(0, []float64{0, 1}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewWavetable(44100, []float64{1}); err == nil {
		t.Fatal("expected error for short table")
	}
}
