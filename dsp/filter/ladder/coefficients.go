package ladder

import (
	"math"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// Coefficients parameterize every stage of the cascade and the feedback path.
type Coefficients struct {
	// B0 and B1 are the feed-forward gains of a one-pole stage.
	B0 float64
	B1 float64
	// A1 is the recursive gain of a one-pole stage.
	A1 float64
	// ResonanceGain is the frequency-compensated feedback strength.
	ResonanceGain float64
}

const (
	// stageSkew is the 1.3 divisor and 0.3 cross term of the emulated
	// transistor stage.
	stageSkew      = 1.3
	stageCrossTerm = 0.3
)

// NormalizedCutoff returns the angular cutoff wc = 2π·cutoffHz/sampleRate.
func NormalizedCutoff(sampleRate, cutoffHz float64) float64 {
	return 2 * math.Pi * cutoffHz / sampleRate
}

// ComputeCoefficients derives stage and feedback coefficients.
//
// The stage gain g and the resonance correction are fourth and third order
// polynomial fits in wc that track the tuning of the analog ladder. resonance
// is normalized so that 1 approaches self-oscillation.
//
// The function does not validate its inputs. Callers clamp cutoffHz below
// Nyquist and resonance to [0, 1] beforehand; [Filter] does so.
func ComputeCoefficients(sampleRate, cutoffHz, resonance float64) Coefficients {
	wc := NormalizedCutoff(sampleRate, cutoffHz)

	// Horner form of 0.9892·wc − 0.4342·wc² + 0.1381·wc³ − 0.0202·wc⁴.
	g := wc * (0.9892 + wc*(-0.4342+wc*(0.1381-0.0202*wc)))

	// 1.0029 + 0.0526·wc − 0.0926·wc² + 0.0218·wc³
	resonanceGain := resonance * (1.0029 + wc*(0.0526+wc*(-0.0926+0.0218*wc)))

	return Coefficients{
		B0:            g / stageSkew,
		B1:            g * stageCrossTerm / stageSkew,
		A1:            1 - g,
		ResonanceGain: resonanceGain,
	}
}

// StageGain returns g, the DC-normalized gain of a single stage
// (B0 + B1 ≈ 1 − A1 = g).
func (c Coefficients) StageGain() float64 {
	return 1 - c.A1
}

// IsFinite reports whether every coefficient is finite.
func (c Coefficients) IsFinite() bool {
	return core.IsFinite(c.B0) && core.IsFinite(c.B1) && core.IsFinite(c.A1) && core.IsFinite(c.ResonanceGain)
}
