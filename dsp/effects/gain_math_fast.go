//go:build fastmath

package effects

import (
	"github.com/meko-christian/algo-approx"
)

const (
	ln2  = 0.693147180559945309417232121458
	ln10 = 2.302585092994045684017991454684
)

// mathPower2 computes 2^x via the identity 2^x = e^(x*ln 2).
func mathPower2(x float64) float64 {
	return approx.FastExp(x * ln2)
}

// mathPower10 computes 10^x via the identity 10^x = e^(x*ln 10).
func mathPower10(x float64) float64 {
	return approx.FastExp(x * ln10)
}
