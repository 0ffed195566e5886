// SPDX-License-Identifier: EPL-2.0

// Package utils holds the per-sample conversions shared by the audio and
// format packages.
package utils

import "math"

// ClampInt16 narrows a sample expressed on the int16 scale. Values outside
// [-32768, 32767] saturate, the fractional part is truncated toward zero and
// NaN maps to silence.
func ClampInt16(x float32) int16 {
	switch {
	case math.IsNaN(float64(x)):
		return 0
	case x >= math.MaxInt16:
		return math.MaxInt16
	case x <= math.MinInt16:
		return math.MinInt16
	}
	return int16(x)
}

// Float32ToInt16 converts a normalised sample in [-1, 1] to 16-bit PCM.
// The 32768 scale makes it the exact inverse of Int16ToFloat32.
func Float32ToInt16(x float32) int16 {
	return ClampInt16(x * 32768.0)
}

// Int16ToFloat32 converts 16-bit PCM to a normalised sample in [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// CubicInterpolate performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position between them (0 <= x <= 1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}
