package audio

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts the waveform to a new sample rate. Length and rate are
// adjusted together so playback duration is preserved.
func Resample(w Waveform, sampleRate int) (Waveform, error) {
	if sampleRate <= 0 {
		return Waveform{}, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	if w.SampleRate == sampleRate || len(w.Samples) == 0 {
		result := w.Clone()
		result.SampleRate = sampleRate

		return result, nil
	}

	config := &resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(sampleRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}

	r, err := resampling.New(config)

	if err != nil {
		return Waveform{}, fmt.Errorf("failed to create resampler: %w", err)
	}

	output, err := r.Process(w.Float64())

	if err != nil {
		return Waveform{}, fmt.Errorf("resample error: %w", err)
	}

	size := int(math.Round(float64(len(w.Samples)) * float64(sampleRate) / float64(w.SampleRate)))

	result := make([]float32, size)

	for i := 0; i < size && i < len(output); i++ {
		result[i] = float32(output[i])
	}

	return Waveform{
		Samples:    result,
		SampleRate: sampleRate,
	}, nil
}
