// Package money holds the rounding helper shared by every component that
// derives an amount. All amounts are plain float64 over numeric(12,2)
// columns; rounding happens once, at the point a value is derived.
package money

import "math"

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
