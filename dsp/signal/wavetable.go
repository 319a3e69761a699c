package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// DefaultTableSize is the number of entries in a single-cycle table.
const DefaultTableSize = 1024

// Waveform names a single-cycle table shape.
type Waveform int

const (
	// WaveformSine is one cycle of sin(2πn/N).
	WaveformSine Waveform = iota
	// WaveformSawtooth is a linear ramp from -1 to 1.
	WaveformSawtooth
)

func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformSawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// ParseWaveform resolves "sine" or "sawtooth" (also "saw").
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return WaveformSine, nil
	case "sawtooth", "saw":
		return WaveformSawtooth, nil
	default:
		return 0, fmt.Errorf("signal: unknown waveform %q", name)
	}
}

// Table builds a single-cycle table of size entries.
func (w Waveform) Table(size int) ([]float64, error) {
	if size < 2 {
		return nil, fmt.Errorf("signal: table size must be >= 2: %d", size)
	}

	table := make([]float64, size)
	switch w {
	case WaveformSine:
		for n := range table {
			table[n] = math.Sin(2 * math.Pi * float64(n) / float64(size))
		}
	case WaveformSawtooth:
		for n := range table {
			table[n] = -1 + 2*float64(n)/float64(size-1)
		}
	default:
		return nil, fmt.Errorf("signal: unknown waveform %d", w)
	}

	return table, nil
}

// Wavetable is a linearly interpolating single-cycle table oscillator.
type Wavetable struct {
	table      []float64
	sampleRate float64
	frequency  float64
	amplitude  float64
	phase      float64 // read position in table entries
	increment  float64
}

// NewWavetable returns an oscillator reading table at sampleRate. The table
// is copied.
func NewWavetable(sampleRate float64, table []float64) (*Wavetable, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("signal: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if len(table) < 2 {
		return nil, fmt.Errorf("signal: table needs at least 2 entries: %d", len(table))
	}

	return &Wavetable{
		table:      append([]float64(nil), table...),
		sampleRate: sampleRate,
		amplitude:  1,
	}, nil
}

// SetFrequency sets the oscillator frequency in Hz. Negative frequencies run
// the table backwards.
func (w *Wavetable) SetFrequency(freqHz float64) {
	w.frequency = core.Sanitize(freqHz, 0)
	w.increment = float64(len(w.table)) * w.frequency / w.sampleRate
}

// Frequency returns the oscillator frequency in Hz.
func (w *Wavetable) Frequency() float64 { return w.frequency }

// SetAmplitude sets the output scale.
func (w *Wavetable) SetAmplitude(amplitude float64) {
	w.amplitude = core.Sanitize(amplitude, 0)
}

// Amplitude returns the output scale.
func (w *Wavetable) Amplitude() float64 { return w.amplitude }

// Reset moves the read position back to the start of the table.
func (w *Wavetable) Reset() {
	w.phase = 0
}

// Process returns the next sample.
func (w *Wavetable) Process() float64 {
	size := len(w.table)

	i0 := int(w.phase)
	frac := w.phase - float64(i0)
	i1 := i0 + 1
	if i1 >= size {
		i1 = 0
	}

	out := w.table[i0] + frac*(w.table[i1]-w.table[i0])

	w.phase = math.Mod(w.phase+w.increment, float64(size))
	if w.phase < 0 {
		w.phase += float64(size)
	}
	if w.phase >= float64(size) {
		w.phase = 0
	}

	return w.amplitude * out
}

// ReadSamples fills dst with oscillator output. It never ends.
func (w *Wavetable) ReadSamples(dst []float64) (int, error) {
	for i := range dst {
		dst[i] = w.Process()
	}
	return len(dst), nil
}
