package audio

import (
	"bytes"
	"errors"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

const ContentTypeWAV = "audio/wav"

// EncodeWAV writes the waveform as a mono 16-bit PCM WAV container.
func EncodeWAV(w Waveform) ([]byte, error) {
	if w.SampleRate <= 0 {
		return nil, errors.New("invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(w.SampleRate),
		NumChannels: 1,
		Precision:   2,
	}

	out := &writeSeeker{}

	if err := wav.Encode(out, &streamer{samples: w.Samples}, format); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// DecodeWAV reads a WAV container and keeps its first channel.
func DecodeWAV(r io.Reader) (*Waveform, error) {
	s, format, err := wav.Decode(r)

	if err != nil {
		return nil, err
	}

	defer s.Close()

	var samples []float32

	buf := make([][2]float64, 4096)

	for {
		n, ok := s.Stream(buf)

		for _, frame := range buf[:n] {
			samples = append(samples, float32(frame[0]))
		}

		if !ok {
			break
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return &Waveform{
		Samples:    samples,
		SampleRate: int(format.SampleRate),
	}, nil
}

func IsWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

type streamer struct {
	samples []float32
	pos     int
}

func (s *streamer) Stream(buf [][2]float64) (int, bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}

	n := copy2(buf, s.samples[s.pos:])
	s.pos += n

	return n, true
}

func (s *streamer) Err() error {
	return nil
}

func copy2(dst [][2]float64, src []float32) int {
	n := min(len(dst), len(src))

	for i := 0; i < n; i++ {
		v := float64(src[i])

		dst[i][0] = v
		dst[i][1] = v
	}

	return n
}

type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}

	n := copy(w.buf[w.pos:], p)
	w.pos += n

	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(w.pos) + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if pos < 0 {
		return 0, errors.New("negative position")
	}

	w.pos = int(pos)

	return pos, nil
}

func (w *writeSeeker) Bytes() []byte {
	return w.buf
}
