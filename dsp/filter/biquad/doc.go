// Package biquad provides second-order IIR filter sections with closed-form
// coefficient design.
//
// A [Filter] combines the Direct Form II Transposed recursion with the
// standard audio-EQ-cookbook designs for seven response shapes (low-pass,
// high-pass, band-pass, notch, peaking EQ, low shelf, high shelf). Setters
// mark the coefficients dirty; they are re-derived before the next processed
// sample, so a caller following the set-then-process contract never observes
// stale coefficients. [StereoFilter] runs two independent sections updated in
// lockstep.
package biquad
