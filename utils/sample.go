// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 scales x to 16-bit PCM, rounding to the nearest step and
// clamping to the int16 range. It is the exact inverse of Int16ToFloat32.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * 32768.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// Int16ToFloat32 scales a 16-bit PCM sample into [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// Float32sToInt16s converts src into dst and returns the number of
// converted samples, min(len(dst), len(src)).
func Float32sToInt16s(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}

// Int16sToFloat32s converts src into dst and returns the number of
// converted samples, min(len(dst), len(src)).
func Int16sToFloat32s(dst []float32, src []int16) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Int16ToFloat32(src[i])
	}
	return n
}
