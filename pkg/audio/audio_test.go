package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sine(freq float64, rate, n int) Waveform {
	samples := make([]float32, n)

	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}

	return Waveform{Samples: samples, SampleRate: rate}
}

func TestWAV(t *testing.T) {
	w := sine(440, 22050, 2205)

	data, err := EncodeWAV(w)
	require.NoError(t, err)
	require.True(t, IsWAV(data))
	require.Len(t, data, 44+2205*2)

	decoded, err := DecodeWAV(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, 22050, decoded.SampleRate)
	require.Len(t, decoded.Samples, len(w.Samples))

	for i := range w.Samples {
		require.InDelta(t, w.Samples[i], decoded.Samples[i], 1e-3)
	}
}

func TestWAVInvalidRate(t *testing.T) {
	_, err := EncodeWAV(Waveform{Samples: []float32{0}})
	require.Error(t, err)
}

func TestPCM16(t *testing.T) {
	data := EncodePCM16(Waveform{Samples: []float32{0, 2, -2, 0.5}, SampleRate: 24000})
	require.Len(t, data, 8)

	w := DecodePCM16(data, 24000)

	require.InDelta(t, 0, w.Samples[0], 1e-6)
	require.InDelta(t, 1, w.Samples[1], 1e-3)
	require.InDelta(t, -1, w.Samples[2], 1e-3)
	require.InDelta(t, 0.5, w.Samples[3], 1e-3)
}

func TestDecodeWAVStereo(t *testing.T) {
	frames := [][2]int16{{16384, -16384}, {-8192, 8192}, {0, 32767}}

	var buf bytes.Buffer

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(frames)*4))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint32(16000))
	binary.Write(&buf, binary.LittleEndian, uint32(16000*4))
	binary.Write(&buf, binary.LittleEndian, uint16(4))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(frames)*4))

	for _, f := range frames {
		binary.Write(&buf, binary.LittleEndian, f)
	}

	w, err := DecodeWAV(&buf)
	require.NoError(t, err)

	require.Equal(t, 16000, w.SampleRate)
	require.Len(t, w.Samples, 3)
	require.InDelta(t, 0.5, w.Samples[0], 1e-3)
	require.InDelta(t, -0.25, w.Samples[1], 1e-3)
	require.InDelta(t, 0, w.Samples[2], 1e-3)
}

func TestDuration(t *testing.T) {
	w := Waveform{Samples: make([]float32, 16000), SampleRate: 16000}
	require.Equal(t, time.Second, w.Duration())
}

func TestResample(t *testing.T) {
	w := sine(440, 22050, 22050)

	result, err := Resample(w, 24000)
	require.NoError(t, err)

	require.Equal(t, 24000, result.SampleRate)
	require.Len(t, result.Samples, 24000)
	require.InDelta(t, w.Duration().Seconds(), result.Duration().Seconds(), 1e-3)
	require.Len(t, w.Samples, 22050)
}

func TestResampleSameRate(t *testing.T) {
	w := sine(440, 16000, 100)

	result, err := Resample(w, 16000)
	require.NoError(t, err)
	require.Equal(t, w.Samples, result.Samples)
}
