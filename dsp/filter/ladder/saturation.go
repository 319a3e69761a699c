package ladder

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-approx"
)

// Saturation selects the nonlinearity applied to the feedback-summed input.
type Saturation int

const (
	// SaturationTanh uses math.Tanh.
	SaturationTanh Saturation = iota
	// SaturationFast uses an exp-based tanh built on a fast exponential
	// approximation. Output differs from SaturationTanh at the bit level.
	SaturationFast
)

// fastTanhLimit is where tanh is within float32 rounding of ±1.
const fastTanhLimit = 9.0

func (s Saturation) String() string {
	switch s {
	case SaturationTanh:
		return "tanh"
	case SaturationFast:
		return "fast"
	default:
		return "unknown"
	}
}

// ParseSaturation maps "tanh" or "fast" to a Saturation. An empty name
// selects SaturationTanh.
func ParseSaturation(name string) (Saturation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tanh", "":
		return SaturationTanh, nil
	case "fast":
		return SaturationFast, nil
	default:
		return 0, fmt.Errorf("ladder: unknown saturation %q", name)
	}
}

func validSaturation(s Saturation) bool {
	return s == SaturationTanh || s == SaturationFast
}

func (s Saturation) apply(x float64) float64 {
	if s == SaturationFast {
		return fastTanh(x)
	}

	return math.Tanh(x)
}

// fastTanh evaluates tanh(x) = (e^2x − 1)/(e^2x + 1) with a fast exponential
// and clamps the result to [-1, 1].
func fastTanh(x float64) float64 {
	if x >= fastTanhLimit {
		return 1
	}

	if x <= -fastTanhLimit {
		return -1
	}

	e := float64(approx.FastExp(float32(2 * x)))
	y := (e - 1) / (e + 1)

	if y > 1 {
		return 1
	}

	if y < -1 {
		return -1
	}

	return y
}
