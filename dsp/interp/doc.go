// Package interp provides fractional-sample interpolation primitives used by
// delay lines and modulated effects.
package interp
