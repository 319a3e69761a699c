// Package response measures the small-signal frequency response of a
// sample-by-sample processor from its impulse response.
//
// The processor is driven with a scaled impulse small enough to keep
// saturating stages in their linear region, the response is tapered at the
// tail, zero-padded and transformed with an FFT. From the one-sided power
// spectrum the analyzer reports DC gain, the resonance peak and the upper
// -3 dB edge.
//
// # Usage
//
//	a, err := response.NewAnalyzer(44100, 8192)
//	m, err := a.Measure(filter, 0.01)
//	fmt.Printf("peak %.0f Hz at %.1f dB\n", m.PeakHz, m.PeakDB)
package response
