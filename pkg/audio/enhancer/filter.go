package enhancer

import (
	"math"
)

// maxNormalizedCutoff keeps the design stable when the requested cutoff is
// at or above Nyquist (for example 8 kHz on 16 kHz audio).
const maxNormalizedCutoff = 0.99

// section is one biquad in transposed direct form II.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Butterworth designs a low-pass Butterworth filter as cascaded second-order
// sections using the bilinear transform with frequency prewarping. Odd orders
// end with a first-order section.
func Butterworth(order int, cutoff, sampleRate float64) []section {
	if order < 1 || cutoff <= 0 || sampleRate <= 0 {
		return nil
	}

	wn := cutoff / (sampleRate / 2)

	if wn >= 1 {
		wn = maxNormalizedCutoff
	}

	k := math.Tan(math.Pi * wn / 2)

	var sections []section

	for i := 1; i <= order/2; i++ {
		theta := math.Pi * float64(2*i-1) / float64(2*order)
		q := 1 / (2 * math.Cos(theta))

		norm := 1 / (1 + k/q + k*k)

		b0 := k * k * norm

		sections = append(sections, section{
			b0: b0,
			b1: 2 * b0,
			b2: b0,

			a1: 2 * (k*k - 1) * norm,
			a2: (1 - k/q + k*k) * norm,
		})
	}

	if order%2 == 1 {
		norm := 1 / (1 + k)

		sections = append(sections, section{
			b0: k * norm,
			b1: k * norm,

			a1: (k - 1) * norm,
		})
	}

	return sections
}

// Lowpass filters x in a single causal pass.
func Lowpass(x []float64, sampleRate, cutoff float64, order int) []float64 {
	result := append([]float64(nil), x...)

	for _, s := range Butterworth(order, cutoff, sampleRate) {
		var z1, z2 float64

		for i, v := range result {
			y := s.b0*v + z1

			z1 = s.b1*v - s.a1*y + z2
			z2 = s.b2*v - s.a2*y

			result[i] = y
		}
	}

	return result
}
