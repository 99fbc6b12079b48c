// Package engine implements the three pure stages of the crating pipeline:
// nesting, engineering and costing. Every stage is a synchronous function of
// (input, settings) with no I/O and no shared state, safe to re-run on
// unchanged input.
package engine

import "math"

// Unit conversion constants. Item dimensions and weights arrive metric;
// the material catalog and the engineering thresholds are imperial.
const (
	lbPerKg  = 2.20462262185
	inPerCm  = 1.0 / 2.54
	m3PerIn3 = 1.6387064e-5
	roundEps = 1e-9
)

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 {
	return kg * lbPerKg
}

// CmToIn converts centimeters to inches.
func CmToIn(cm float64) float64 {
	return cm * inPerCm
}

// In3ToM3 converts cubic inches to cubic meters.
func In3ToM3(in3 float64) float64 {
	return in3 * m3PerIn3
}

// RoundUpToStep returns the smallest multiple of step that is >= q.
// Materials cannot be fabricated in fractional-below-step units, so the
// rounding is always upward; a small epsilon keeps exact multiples from
// being pushed to the next step by floating-point noise.
func RoundUpToStep(q, step float64) float64 {
	if q <= 0 {
		return 0
	}
	return math.Ceil(q/step-roundEps) * step
}
