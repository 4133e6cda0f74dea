package enhancer

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// FFT lengths with large prime factors are quadratic in gonum, so the
	// transform works on a zero-padded length whose factors stay small.
	maxOutputFactor = 97
	maxPadSearch    = 256
)

// PitchShift resamples x to round(len(x)/factor) samples with the Fourier
// method. The sample rate is left as is, so pitch rises and duration
// shortens by the same factor.
func PitchShift(x []float64, factor float64) []float64 {
	if len(x) == 0 || factor <= 0 || factor == 1 {
		return append([]float64(nil), x...)
	}

	m := max(1, int(math.Round(float64(len(x))/factor)))

	p := paddedLength(len(x), factor)
	q := max(1, int(math.Round(float64(p)/factor)))

	padded := make([]float64, p)
	copy(padded, x)

	y := resampleFourier(padded, q)

	result := make([]float64, m)
	copy(result, y)

	return result
}

// resampleFourier resamples a periodic sequence to num samples by truncating
// or zero-extending its spectrum. The Nyquist bin is split or joined when
// the shorter length is even.
func resampleFourier(x []float64, num int) []float64 {
	n := len(x)

	coeff := fourier.NewFFT(n).Coefficients(nil, x)

	spectrum := make([]complex128, num/2+1)

	shorter := min(n, num)
	nyquist := shorter/2 + 1

	copy(spectrum[:nyquist], coeff[:nyquist])

	if shorter%2 == 0 {
		if num < n {
			spectrum[shorter/2] *= 2
		} else if num > n {
			spectrum[shorter/2] *= 0.5
		}
	}

	y := fourier.NewFFT(num).Sequence(nil, spectrum)

	scale := 1 / float64(n)

	for i := range y {
		y[i] *= scale
	}

	return y
}

func paddedLength(n int, factor float64) int {
	candidates := smoothLengths(n)

	for i, p := range candidates {
		if i >= maxPadSearch {
			break
		}

		q := max(1, int(math.Round(float64(p)/factor)))

		if largestFactor(q) <= maxOutputFactor {
			return p
		}
	}

	return candidates[0]
}

// smoothLengths lists the 2-3-5-7 smooth numbers in [n, 2n] in ascending
// order. The range always holds a power of two.
func smoothLengths(n int) []int {
	n = max(n, 1)

	var result []int

	for a := 1; a <= 2*n; a *= 2 {
		for b := a; b <= 2*n; b *= 3 {
			for c := b; c <= 2*n; c *= 5 {
				for d := c; d <= 2*n; d *= 7 {
					if d >= n {
						result = append(result, d)
					}
				}
			}
		}
	}

	slices.Sort(result)

	return result
}

func largestFactor(n int) int {
	if n < 2 {
		return 1
	}

	largest := 1

	for f := 2; f*f <= n; f++ {
		for n%f == 0 {
			largest = f
			n /= f
		}
	}

	if n > 1 {
		largest = n
	}

	return largest
}
