package ladder

import (
	"fmt"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// DefaultCompensationGain is the passband compensation applied against the
// level loss introduced by resonance feedback.
const DefaultCompensationGain = 0.5

// Taps holds every signal of one cascade step: the saturated drive and the
// four stage outputs.
type Taps struct {
	Nonlinear float64
	Out1      float64
	Out2      float64
	Out3      float64
	Out4      float64
}

// State is the complete persistent memory of a cascade: four stage states and
// the feedback register holding the previous fourth-stage output.
type State struct {
	Stages   [4]Stage
	Feedback float64
}

// IsZero reports whether every state value is exactly zero.
func (s State) IsZero() bool {
	return s == State{}
}

// Cascade is the nonlinear feedback network: four one-pole stages in series
// with a single delayed feedback path around them.
//
// Cascade is not safe for concurrent use.
type Cascade struct {
	state            State
	compensationGain float64
	saturation       Saturation
}

// NewCascade returns a zeroed cascade.
func NewCascade(compensationGain float64, saturation Saturation) *Cascade {
	return &Cascade{
		compensationGain: compensationGain,
		saturation:       saturation,
	}
}

// CompensationGain returns the passband compensation gain.
func (c *Cascade) CompensationGain() float64 { return c.compensationGain }

// Saturation returns the nonlinearity in use.
func (c *Cascade) Saturation() Saturation { return c.saturation }

// ProcessSample advances the cascade by one sample and returns all taps.
//
// The feedback term uses the fourth-stage output of the previous call; the
// register is updated only after all four stages ran.
func (c *Cascade) ProcessSample(input float64, coeffs *Coefficients) Taps {
	s := &c.state

	k := 4 * coeffs.ResonanceGain
	drive := (1+k*c.compensationGain)*input - k*s.Feedback

	nl := c.saturation.apply(drive)
	out1 := s.Stages[0].Process(nl, coeffs)
	out2 := s.Stages[1].Process(out1, coeffs)
	out3 := s.Stages[2].Process(out2, coeffs)
	out4 := s.Stages[3].Process(out3, coeffs)

	s.Feedback = out4

	return Taps{
		Nonlinear: nl,
		Out1:      out1,
		Out2:      out2,
		Out3:      out3,
		Out4:      out4,
	}
}

// Reset zeroes all stage memory and the feedback register.
func (c *Cascade) Reset() {
	c.state = State{}
}

// State returns a copy of the current cascade state.
func (c *Cascade) State() State {
	return c.state
}

// SetState restores an externally saved state.
func (c *Cascade) SetState(state State) error {
	if !stateIsFinite(state) {
		return fmt.Errorf("ladder: state contains NaN or Inf")
	}

	c.state = state

	return nil
}

func stateIsFinite(state State) bool {
	for _, st := range state.Stages {
		if !core.IsFinite(st.PrevInput) || !core.IsFinite(st.PrevOutput) {
			return false
		}
	}

	return core.IsFinite(state.Feedback)
}
