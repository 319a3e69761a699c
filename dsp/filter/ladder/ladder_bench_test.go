package ladder

import (
	"math"
	"testing"
)

func BenchmarkProcessSample(b *testing.B) {
	tests := []struct {
		name string
		sat  Saturation
	}{
		{name: "tanh", sat: SaturationTanh},
		{name: "fast", sat: SaturationFast},
	}

	for _, tc := range tests {
		b.Run(tc.name, func(b *testing.B) {
			f, err := New(48000, WithCutoffHz(1800), WithResonance(0.9), WithSaturation(tc.sat))
			if err != nil {
				b.Fatalf("New() error = %v", err)
			}

			in := 0.0
			step := 2 * math.Pi * 220 / 48000

			b.ReportAllocs()
			b.ResetTimer()

			for i := range b.N {
				_ = f.ProcessSample(math.Sin(in))
				in += step
				if i%4096 == 0 {
					in = math.Mod(in, 2*math.Pi)
				}
			}
		})
	}
}

func BenchmarkProcessInPlace(b *testing.B) {
	f, err := New(48000, WithCutoffHz(1800), WithResonance(0.9), WithMode(ModeBandpass4))
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	buf := make([]float64, 256)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * float64(i) / 64)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(buf) * 8))
	b.ResetTimer()

	for range b.N {
		f.ProcessInPlace(buf)
	}
}

func BenchmarkComputeCoefficients(b *testing.B) {
	var c Coefficients
	for i := range b.N {
		c = ComputeCoefficients(48000, 100+float64(i%1000)*10, 0.7)
	}
	_ = c
}
