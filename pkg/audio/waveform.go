package audio

import (
	"time"
)

// Waveform is mono audio in float samples. Stages never modify Samples in
// place; every transformation returns a new Waveform.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

func (w Waveform) Len() int {
	return len(w.Samples)
}

func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

func (w Waveform) Clone() Waveform {
	return Waveform{
		Samples:    append([]float32(nil), w.Samples...),
		SampleRate: w.SampleRate,
	}
}

func (w Waveform) Float64() []float64 {
	result := make([]float64, len(w.Samples))

	for i, s := range w.Samples {
		result[i] = float64(s)
	}

	return result
}

func FromFloat64(samples []float64, sampleRate int) Waveform {
	result := make([]float32, len(samples))

	for i, s := range samples {
		result[i] = float32(s)
	}

	return Waveform{
		Samples:    result,
		SampleRate: sampleRate,
	}
}
