// Package ladder provides a four-pole resonant ladder low-pass filter after
// the simplified digital Moog model of Välimäki and Huovilainen.
//
// The topology is fixed:
//
//	x ─► (1+4·Gres·Gcomp)·x − 4·Gres·y4[n−1] ─► tanh ─► S1 ─► S2 ─► S3 ─► S4 ─► y4
//	        │                                    │       │     │     │     │
//	        └──────────────── taps ──────────────┴───────┴─────┴─────┴─────┘
//	                                  A     B     C     D     E
//
// Each stage S is the one-pole section
//
//	y[n] = g/1.3·x[n] + 0.3·g/1.3·x[n−1] + (1−g)·y[n−1]
//
// whose gain g and the resonance gain Gres come from polynomial fits in the
// normalized cutoff (see [ComputeCoefficients]). The feedback path always
// reads the fourth stage output from the previous sample.
//
// The output is a weighted sum of the saturated input and the four stage
// outputs. [Mode] names the classic weight sets (LP, BP, HP at 12 and
// 24 dB/oct); arbitrary [Weights] are accepted as well.
//
// [Filter] is the streaming entry point. Parameters are clamped and published
// as immutable snapshots, so [Filter.SetParameters] may run on a control
// goroutine while another goroutine calls [Filter.ProcessSample]. The sample
// path does not allocate, lock, or return errors.
package ladder
