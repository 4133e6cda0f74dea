package enhancer

import (
	"math"
)

// Compress applies a static soft-knee curve: the part of each magnitude
// above threshold is divided by ratio, keeping the sign.
func Compress(x []float64, threshold, ratio float64) []float64 {
	result := make([]float64, len(x))

	if ratio <= 0 {
		ratio = 1
	}

	for i, v := range x {
		a := math.Abs(v)

		if a <= threshold {
			result[i] = v
			continue
		}

		result[i] = math.Copysign(threshold+(a-threshold)/ratio, v)
	}

	return result
}

// Reverb adds a single decayed echo of the dry signal. Signals not longer
// than the delay are returned unchanged.
func Reverb(x []float64, delay int, decay float64) []float64 {
	result := append([]float64(nil), x...)

	if delay <= 0 || len(x) <= delay {
		return result
	}

	for i := delay; i < len(x); i++ {
		result[i] += decay * x[i-delay]
	}

	return result
}

// Normalize scales x so that its peak magnitude equals ceiling. Silent input
// is returned unchanged.
func Normalize(x []float64, ceiling float64) []float64 {
	result := append([]float64(nil), x...)

	var peak float64

	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}

	if peak == 0 {
		return result
	}

	gain := ceiling / peak

	for i := range result {
		result[i] *= gain
	}

	return result
}

func Saturate(x []float64, drive, scale float64) []float64 {
	result := make([]float64, len(x))

	for i, v := range x {
		result[i] = math.Tanh(v*drive) * scale
	}

	return result
}
