package testutil

import (
	"math"

	"github.com/cwbudde/algo-ladder/dsp/signal"
)

// Impulse returns a signal of the given length with amplitude at position 0.
func Impulse(length int, amplitude float64) []float64 {
	out, err := signal.NewGenerator(nil).Impulse(length)
	if err != nil {
		return []float64{}
	}
	out[0] *= amplitude
	return out
}

// Noise returns uniform white noise in [-amplitude, amplitude] from a fixed
// seed. It matches the generator's WhiteNoise for the same seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out, err := signal.NewGenerator(nil, signal.WithSeed(seed)).WhiteNoise(amplitude, length)
	if err != nil {
		return make([]float64, max(length, 0))
	}
	return out
}

// Sine returns a sine at freqHz.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Sawtooth returns a naive rising ramp in [-amplitude, amplitude) at freqHz.
func Sawtooth(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	inc := freqHz / sampleRate
	phase := 0.0
	for i := range out {
		out[i] = amplitude * (2*phase - 1)
		phase += inc
		if phase >= 1 {
			phase--
		}
	}
	return out
}

// OnePoleCascade filters input through n identical one-pole sections
// y[k] = b0·x[k] + b1·x[k−1] + a1·y[k−1] with no feedback between them, one
// whole-signal pass per section. It is the linear reference for the ladder.
func OnePoleCascade(input []float64, n int, b0, b1, a1 float64) []float64 {
	cur := append([]float64(nil), input...)
	for range n {
		next := make([]float64, len(cur))
		var px, py float64
		for i, x := range cur {
			y := b0*x + b1*px + a1*py
			px, py = x, y
			next[i] = y
		}
		cur = next
	}
	return cur
}
