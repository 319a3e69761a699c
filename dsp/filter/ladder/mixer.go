package ladder

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// Weights scale the five cascade taps into the output sample.
type Weights struct {
	A float64 // saturated drive
	B float64 // first stage
	C float64 // second stage
	D float64 // third stage
	E float64 // fourth stage
}

// Mix returns the weighted sum of the taps.
func Mix(t Taps, w Weights) float64 {
	return t.Nonlinear*w.A + t.Out1*w.B + t.Out2*w.C + t.Out3*w.D + t.Out4*w.E
}

// IsFinite reports whether every weight is finite.
func (w Weights) IsFinite() bool {
	return core.IsFinite(w.A) && core.IsFinite(w.B) && core.IsFinite(w.C) && core.IsFinite(w.D) && core.IsFinite(w.E)
}

// sanitized replaces non-finite weights with zero.
func (w Weights) sanitized() Weights {
	return Weights{
		A: core.Sanitize(w.A, 0),
		B: core.Sanitize(w.B, 0),
		C: core.Sanitize(w.C, 0),
		D: core.Sanitize(w.D, 0),
		E: core.Sanitize(w.E, 0),
	}
}

// Mode names a classic response shape reachable through tap weighting.
type Mode int

const (
	// ModeLowpass4 is the traditional 24 dB/oct ladder output.
	ModeLowpass4 Mode = iota
	// ModeLowpass2 is a 12 dB/oct low-pass taken after the second stage.
	ModeLowpass2
	// ModeBandpass4 is a 24 dB/oct band-pass.
	ModeBandpass4
	// ModeBandpass2 is a 12 dB/oct band-pass.
	ModeBandpass2
	// ModeHighpass4 is a 24 dB/oct high-pass.
	ModeHighpass4
	// ModeHighpass2 is a 12 dB/oct high-pass.
	ModeHighpass2
)

var modeTable = [...]struct {
	name    string
	weights Weights
}{
	ModeLowpass4:  {"lp4", Weights{0, 0, 0, 0, 1}},
	ModeLowpass2:  {"lp2", Weights{0, 0, 1, 0, 0}},
	ModeBandpass4: {"bp4", Weights{0, 0, 4, -8, 4}},
	ModeBandpass2: {"bp2", Weights{0, 2, -2, 0, 0}},
	ModeHighpass4: {"hp4", Weights{1, -4, 6, -4, 1}},
	ModeHighpass2: {"hp2", Weights{1, -2, 1, 0, 0}},
}

// Modes returns every named mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, len(modeTable))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

func validMode(m Mode) bool {
	return m >= 0 && int(m) < len(modeTable)
}

func (m Mode) String() string {
	if !validMode(m) {
		return "unknown"
	}
	return modeTable[m].name
}

// Weights returns the tap weights that realize m. Unknown modes return the
// zero weights.
func (m Mode) Weights() Weights {
	if !validMode(m) {
		return Weights{}
	}
	return modeTable[m].weights
}

// ParseMode resolves a mode name such as "lp4" or "HP2".
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, e := range modeTable {
		if e.name == name {
			return Mode(i), nil
		}
	}

	return 0, fmt.Errorf("ladder: unknown mode %q", name)
}
