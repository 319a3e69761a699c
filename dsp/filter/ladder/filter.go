package ladder

import "github.com/cwbudde/algo-ladder/dsp/core"

// Filter is a mono resonant ladder low-pass with a five-tap output mixer.
//
// Control methods (SetParameters, SetCutoffHz, SetResonance, SetWeights,
// SetMode, RequestReset) may be called from a goroutine other than the one
// processing samples. Processing methods, Reset and SetState must stay on a
// single goroutine.
type Filter struct {
	controls

	cascade Cascade
}

// New constructs a filter for sampleRate with zeroed state. A non-positive or
// non-finite sample rate is a configuration error.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	f := &Filter{
		cascade: Cascade{
			compensationGain: cfg.compensationGain,
			saturation:       cfg.saturation,
		},
	}
	f.init(sampleRate, cfg)

	return f, nil
}

// CompensationGain returns the passband compensation gain.
func (f *Filter) CompensationGain() float64 { return f.cascade.compensationGain }

// Saturation returns the feedback nonlinearity.
func (f *Filter) Saturation() Saturation { return f.cascade.saturation }

// ProcessSample consumes one input sample and returns one output sample.
// Non-finite input is treated as silence.
func (f *Filter) ProcessSample(input float64) float64 {
	if f.takeReset() {
		f.cascade.Reset()
	}

	p := f.current.Load()
	t := f.cascade.ProcessSample(core.Sanitize(input, 0), &p.Coefficients)

	return Mix(t, p.Weights)
}

// ProcessTaps advances the filter by one sample like ProcessSample but returns
// the unmixed taps.
func (f *Filter) ProcessTaps(input float64) Taps {
	if f.takeReset() {
		f.cascade.Reset()
	}

	p := f.current.Load()

	return f.cascade.ProcessSample(core.Sanitize(input, 0), &p.Coefficients)
}

// ProcessInPlace filters a mono block in place. One parameter snapshot is
// used for the whole block.
func (f *Filter) ProcessInPlace(buf []float64) {
	if f.takeReset() {
		f.cascade.Reset()
	}

	p := f.current.Load()
	for i, x := range buf {
		buf[i] = Mix(f.cascade.ProcessSample(core.Sanitize(x, 0), &p.Coefficients), p.Weights)
	}
}

// ProcessTo filters src into dst. Both slices must have the same length.
func (f *Filter) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]

	if f.takeReset() {
		f.cascade.Reset()
	}

	p := f.current.Load()
	for i, x := range src {
		dst[i] = Mix(f.cascade.ProcessSample(core.Sanitize(x, 0), &p.Coefficients), p.Weights)
	}
}

// Reset zeroes all stage and feedback state. Cached coefficients and weights
// are kept.
func (f *Filter) Reset() {
	f.resetPending.Store(false)
	f.cascade.Reset()
}

// State returns a copy of the cascade state.
func (f *Filter) State() State {
	return f.cascade.State()
}

// SetState restores an externally saved cascade state.
func (f *Filter) SetState(state State) error {
	return f.cascade.SetState(state)
}
