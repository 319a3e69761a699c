package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

// Errors returned by response analysis.
var (
	ErrEmptyResponse     = errors.New("response: impulse response is empty")
	ErrInvalidSampleRate = errors.New("response: sample rate must be positive")
	ErrInvalidFFTSize    = errors.New("response: fft size must be a power of two >= 16")
	ErrInvalidAmplitude  = errors.New("response: impulse amplitude must be finite and non-zero")
)

// taperFraction is the tail share of the response faded out before the FFT.
const taperFraction = 0.1

// Processor is anything that turns one input sample into one output sample.
type Processor interface {
	ProcessSample(input float64) float64
}

// Spectrum is a one-sided magnitude response.
type Spectrum struct {
	Frequencies []float64 // bin centre in Hz, DC to Nyquist
	MagnitudeDB []float64 // 20·log10|H|
}

// Metrics summarizes a magnitude response.
type Metrics struct {
	DCGainDB float64 // gain at 0 Hz
	PeakHz   float64 // frequency of the largest gain
	PeakDB   float64 // largest gain
	EdgeHz   float64 // first frequency above the peak that is 3 dB below it; 0 if none
	RMS      float64 // RMS of the impulse response
	Length   int     // impulse response length in samples
}

// Analyzer turns impulse responses into spectra.
type Analyzer struct {
	sampleRate float64
	fftSize    int
}

// NewAnalyzer creates an analyzer for sampleRate using fftSize-point
// transforms.
func NewAnalyzer(sampleRate float64, fftSize int) (*Analyzer, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	return &Analyzer{sampleRate: sampleRate, fftSize: fftSize}, nil
}

// SampleRate returns the analysis sample rate in Hz.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// ImpulseResponse drives p with an impulse of the given amplitude followed by
// n−1 zeros and returns the output divided by amplitude.
func ImpulseResponse(p Processor, n int, amplitude float64) ([]float64, error) {
	if n <= 0 {
		return nil, ErrEmptyResponse
	}

	if !core.IsFinite(amplitude) || amplitude == 0 {
		return nil, ErrInvalidAmplitude
	}

	out := make([]float64, n)
	out[0] = p.ProcessSample(amplitude)
	for i := 1; i < n; i++ {
		out[i] = p.ProcessSample(0)
	}

	f64.Scale(out, out, 1/amplitude)

	return out, nil
}

// Spectrum computes the magnitude response of ir. Responses longer than the
// FFT size are truncated.
func (a *Analyzer) Spectrum(ir []float64) (Spectrum, error) {
	if len(ir) == 0 {
		return Spectrum{}, ErrEmptyResponse
	}

	n := min(len(ir), a.fftSize)
	tapered := make([]float64, n)
	vecmath.MulBlock(tapered, ir[:n], tailTaper(n))

	in := make([]complex128, a.fftSize)
	for i, v := range tapered {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(a.fftSize)
	if err != nil {
		return Spectrum{}, fmt.Errorf("response: fft plan: %w", err)
	}

	out := make([]complex128, a.fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("response: fft: %w", err)
	}

	bins := a.fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	s := Spectrum{
		Frequencies: make([]float64, bins),
		MagnitudeDB: make([]float64, bins),
	}
	for k := range bins {
		s.Frequencies[k] = float64(k) * a.sampleRate / float64(a.fftSize)
		s.MagnitudeDB[k] = core.PowerToDB(power[k])
	}

	return s, nil
}

// Analyze computes metrics from an impulse response.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	s, err := a.Spectrum(ir)
	if err != nil {
		return Metrics{}, err
	}

	m := s.Metrics()
	m.RMS = RMS(ir)
	m.Length = len(ir)

	return m, nil
}

// Measure records an fftSize-long impulse response of p and analyzes it.
// amplitude should be small for saturating processors.
func (a *Analyzer) Measure(p Processor, amplitude float64) (Metrics, error) {
	ir, err := ImpulseResponse(p, a.fftSize, amplitude)
	if err != nil {
		return Metrics{}, err
	}

	return a.Analyze(ir)
}

// Metrics extracts DC gain, peak and upper -3 dB edge.
func (s Spectrum) Metrics() Metrics {
	if len(s.MagnitudeDB) == 0 {
		return Metrics{}
	}

	// -Inf bins would make MaxIdx pick arbitrarily among them; clamp to a floor.
	mag := make([]float64, len(s.MagnitudeDB))
	for i, v := range s.MagnitudeDB {
		mag[i] = math.Max(core.Sanitize(v, -400), -400)
	}

	peak := floats.MaxIdx(mag)

	m := Metrics{
		DCGainDB: s.MagnitudeDB[0],
		PeakHz:   s.Frequencies[peak],
		PeakDB:   s.MagnitudeDB[peak],
	}

	threshold := mag[peak] - 3
	for k := peak + 1; k < len(mag); k++ {
		if mag[k] <= threshold {
			m.EdgeHz = interpolateEdge(s.Frequencies[k-1], s.Frequencies[k], mag[k-1], mag[k], threshold)
			break
		}
	}

	return m
}

// GainAt returns the magnitude in dB at the bin nearest to freqHz.
func (s Spectrum) GainAt(freqHz float64) float64 {
	if len(s.Frequencies) < 2 {
		return math.NaN()
	}

	step := s.Frequencies[1] - s.Frequencies[0]
	k := int(math.Round(freqHz / step))
	k = max(0, min(k, len(s.Frequencies)-1))

	return s.MagnitudeDB[k]
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return math.Sqrt(f64.DotProduct(x, x) / float64(len(x)))
}

// tailTaper is 1 over the head and a half-Hann fade over the last
// taperFraction of n samples.
func tailTaper(n int) []float64 {
	w := make([]float64, n)
	fade := int(float64(n) * taperFraction)
	start := n - fade
	for i := range w {
		if i < start || fade == 0 {
			w[i] = 1
			continue
		}
		w[i] = 0.5 * (1 + math.Cos(math.Pi*float64(i-start+1)/float64(fade)))
	}
	return w
}

func interpolateEdge(f0, f1, m0, m1, threshold float64) float64 {
	if m0 == m1 {
		return f1
	}

	t := (m0 - threshold) / (m0 - m1)

	return f0 + t*(f1-f0)
}
