package ladder

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// Parameters is an immutable snapshot of the control values in effect,
// after clamping, together with the coefficients derived from them.
type Parameters struct {
	CutoffHz     float64
	Resonance    float64
	Weights      Weights
	Coefficients Coefficients
}

// controls owns the published parameter snapshot and the pending-reset flag.
// Writers replace the snapshot wholesale; the sample path only loads it.
type controls struct {
	sampleRate   float64
	current      atomic.Pointer[Parameters]
	resetPending atomic.Bool
}

func (c *controls) init(sampleRate float64, cfg config) {
	c.sampleRate = sampleRate
	c.current.Store(c.build(cfg.cutoffHz, cfg.resonance, cfg.weights, nil))
}

// build clamps the controls and derives coefficients. NaN cutoff or resonance
// keeps the previous value when prev is non-nil.
func (c *controls) build(cutoffHz, resonance float64, w Weights, prev *Parameters) *Parameters {
	if math.IsNaN(cutoffHz) {
		cutoffHz = defaultCutoffHz
		if prev != nil {
			cutoffHz = prev.CutoffHz
		}
	}

	if math.IsNaN(resonance) {
		resonance = defaultResonance
		if prev != nil {
			resonance = prev.Resonance
		}
	}

	cutoffHz = core.Clamp(cutoffHz, MinCutoffHz, MaxCutoffRatio*c.sampleRate)
	resonance = core.Clamp(resonance, 0, MaxResonance)

	return &Parameters{
		CutoffHz:     cutoffHz,
		Resonance:    resonance,
		Weights:      w.sanitized(),
		Coefficients: ComputeCoefficients(c.sampleRate, cutoffHz, resonance),
	}
}

// SampleRate returns the sample rate in Hz.
func (c *controls) SampleRate() float64 { return c.sampleRate }

// Parameters returns the snapshot currently used by the sample path.
func (c *controls) Parameters() Parameters { return *c.current.Load() }

// CutoffHz returns the clamped cutoff in Hz.
func (c *controls) CutoffHz() float64 { return c.current.Load().CutoffHz }

// Resonance returns the clamped normalized resonance.
func (c *controls) Resonance() float64 { return c.current.Load().Resonance }

// Weights returns the tap weights in effect.
func (c *controls) Weights() Weights { return c.current.Load().Weights }

// Coefficients returns the cached coefficients.
func (c *controls) Coefficients() Coefficients { return c.current.Load().Coefficients }

// SetParameters clamps and publishes new control values. The change is seen
// atomically by the next processed sample or block; it never fails.
//
// SetParameters may run concurrently with processing. Concurrent calls to
// SetParameters and the single-field setters are not coordinated with each
// other; the last writer wins.
func (c *controls) SetParameters(cutoffHz, resonance float64, w Weights) {
	c.current.Store(c.build(cutoffHz, resonance, w, c.current.Load()))
}

// SetCutoffHz changes only the cutoff.
func (c *controls) SetCutoffHz(cutoffHz float64) {
	prev := c.current.Load()
	c.current.Store(c.build(cutoffHz, prev.Resonance, prev.Weights, prev))
}

// SetResonance changes only the resonance.
func (c *controls) SetResonance(resonance float64) {
	prev := c.current.Load()
	c.current.Store(c.build(prev.CutoffHz, resonance, prev.Weights, prev))
}

// SetWeights changes only the tap weights.
func (c *controls) SetWeights(w Weights) {
	prev := c.current.Load()
	c.current.Store(c.build(prev.CutoffHz, prev.Resonance, w, prev))
}

// SetMode changes the tap weights to a named mode. Unknown modes are ignored.
func (c *controls) SetMode(mode Mode) {
	if !validMode(mode) {
		return
	}

	c.SetWeights(mode.Weights())
}

// RequestReset asks the sample path to zero its state before the next
// sample. Unlike Reset it may be called from any goroutine.
func (c *controls) RequestReset() {
	c.resetPending.Store(true)
}

func (c *controls) takeReset() bool {
	return c.resetPending.Load() && c.resetPending.Swap(false)
}
