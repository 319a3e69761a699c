package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair is not core.NearlyEqual within eps. eps 0 demands exact
// equality.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] == want[i] || (eps > 0 && core.NearlyEqual(got[i], want[i], eps)) {
			continue
		}
		t.Fatalf("index %d: got %v, want %v (diff %v, eps %v)", i, got[i], want[i], math.Abs(got[i]-want[i]), eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireNear fails t unless got and want are core.NearlyEqual within eps.
func RequireNear(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if !core.NearlyEqual(got, want, eps) {
		t.Fatalf("%s = %.9f, want %.9f ± %g", name, got, want, eps)
	}
}

// MaxAbs returns the largest absolute value in data.
func MaxAbs(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// WindowPeaks splits data into consecutive windows of size n and returns the
// peak absolute value of each full window.
func WindowPeaks(data []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", n)
	}
	out := make([]float64, 0, len(data)/n)
	for start := 0; start+n <= len(data); start += n {
		out = append(out, MaxAbs(data[start:start+n]))
	}
	return out, nil
}
