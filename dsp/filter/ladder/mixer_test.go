package ladder

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ladder/internal/testutil"
)

func TestMixLinearCombination(t *testing.T) {
	taps := Taps{Nonlinear: 1, Out1: 2, Out2: 3, Out3: 4, Out4: 5}
	w := Weights{A: 0.5, B: -1, C: 2, D: 0.25, E: -3}

	want := 1*0.5 + 2*-1 + 3*2 + 4*0.25 + 5*-3
	if got := Mix(taps, w); got != want {
		t.Fatalf("Mix() = %v, want %v", got, want)
	}
}

func TestMixLowpass4SelectsFourthStage(t *testing.T) {
	c := ComputeCoefficients(44100, 1000, 0.7)
	cascade := NewCascade(DefaultCompensationGain, SaturationTanh)
	w := ModeLowpass4.Weights()

	for i, x := range testutil.Noise(11, 1, 4096) {
		taps := cascade.ProcessSample(x, &c)
		if got := Mix(taps, w); got != taps.Out4 {
			t.Fatalf("sample %d: Mix() = %v, want out4 %v", i, got, taps.Out4)
		}
	}
}

func TestModeWeights(t *testing.T) {
	tests := []struct {
		mode Mode
		name string
		want Weights
	}{
		{ModeLowpass4, "lp4", Weights{0, 0, 0, 0, 1}},
		{ModeLowpass2, "lp2", Weights{0, 0, 1, 0, 0}},
		{ModeBandpass4, "bp4", Weights{0, 0, 4, -8, 4}},
		{ModeBandpass2, "bp2", Weights{0, 2, -2, 0, 0}},
		{ModeHighpass4, "hp4", Weights{1, -4, 6, -4, 1}},
		{ModeHighpass2, "hp2", Weights{1, -2, 1, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mode.Weights(); got != tc.want {
				t.Fatalf("Weights() = %+v, want %+v", got, tc.want)
			}

			if got := tc.mode.String(); got != tc.name {
				t.Fatalf("String() = %q, want %q", got, tc.name)
			}

			parsed, err := ParseMode(" " + tc.name + " ")
			if err != nil {
				t.Fatalf("ParseMode() error = %v", err)
			}

			if parsed != tc.mode {
				t.Fatalf("ParseMode() = %v, want %v", parsed, tc.mode)
			}
		})
	}

	if len(Modes()) != len(tests) {
		t.Fatalf("Modes() = %d entries, want %d", len(Modes()), len(tests))
	}
}

func TestParseModeCaseInsensitive(t *testing.T) {
	m, err := ParseMode("HP4")
	if err != nil || m != ModeHighpass4 {
		t.Fatalf("ParseMode(HP4) = %v, %v", m, err)
	}

	if _, err := ParseMode("notch"); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	if Mode(99).String() != "unknown" || Mode(99).Weights() != (Weights{}) {
		t.Fatal("unknown mode should have no name and zero weights")
	}
}

// Highpass weightings cancel the DC component of the taps once the cascade
// settles; the low-pass output passes it.
func TestModesDCResponse(t *testing.T) {
	const dc = 0.25

	c := ComputeCoefficients(44100, 1000, 0)
	cascade := NewCascade(DefaultCompensationGain, SaturationTanh)

	var taps Taps
	for range 20000 {
		taps = cascade.ProcessSample(dc, &c)
	}

	settled := math.Tanh(dc)
	testutil.RequireNear(t, "lp4 dc", Mix(taps, ModeLowpass4.Weights()), settled, 1e-9)
	testutil.RequireNear(t, "lp2 dc", Mix(taps, ModeLowpass2.Weights()), settled, 1e-9)

	for _, m := range []Mode{ModeHighpass2, ModeHighpass4, ModeBandpass2, ModeBandpass4} {
		testutil.RequireNear(t, m.String()+" dc", Mix(taps, m.Weights()), 0, 1e-9)
	}
}

func TestWeightsSanitized(t *testing.T) {
	w := Weights{A: math.NaN(), B: 1, C: math.Inf(1), D: -2, E: math.Inf(-1)}
	if w.IsFinite() {
		t.Fatal("expected non-finite weights to be reported")
	}

	got := w.sanitized()
	if got != (Weights{B: 1, D: -2}) {
		t.Fatalf("sanitized() = %+v", got)
	}
}
