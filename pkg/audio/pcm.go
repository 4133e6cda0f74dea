package audio

import (
	"encoding/binary"
	"math"
)

// EncodePCM16 renders samples as signed 16-bit little-endian PCM, clipping
// out-of-range values.
func EncodePCM16(w Waveform) []byte {
	data := make([]byte, len(w.Samples)*2)

	for i, s := range w.Samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(toInt16(s)))
	}

	return data
}

// DecodePCM16 reads signed 16-bit little-endian mono PCM. A trailing odd
// byte is ignored.
func DecodePCM16(data []byte, sampleRate int) Waveform {
	samples := make([]float32, len(data)/2)

	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(v) / 32768
	}

	return Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
	}
}

func toInt16(s float32) int16 {
	v := math.Round(float64(s) * 32767)

	if v > math.MaxInt16 {
		return math.MaxInt16
	}

	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}
