package speech

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"sync/atomic"
	"testing"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/stretchr/testify/require"
)

type testSynthesizer struct {
	calls atomic.Int64

	texts  []string
	models []string

	err  func(model string) error
	rate int
}

func (s *testSynthesizer) Synthesize(ctx context.Context, name, text string, options *model.SynthesizeOptions) (*audio.Waveform, error) {
	s.calls.Add(1)

	s.texts = append(s.texts, text)
	s.models = append(s.models, name)

	if s.err != nil {
		if err := s.err(name); err != nil {
			return nil, err
		}
	}

	samples := make([]float32, 2205)

	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 22050))
	}

	return &audio.Waveform{Samples: samples, SampleRate: s.rate}, nil
}

type testTranscriber struct {
	calls atomic.Int64

	inputs    []model.Input
	languages []string
	existed   []bool

	text string
	err  error
}

func (t *testTranscriber) Transcribe(ctx context.Context, name string, input model.Input, options *model.TranscribeOptions) (*model.Transcript, error) {
	t.calls.Add(1)

	_, statErr := os.Stat(input.Path)

	t.inputs = append(t.inputs, input)
	t.languages = append(t.languages, options.Language)
	t.existed = append(t.existed, statErr == nil)

	if t.err != nil {
		return nil, t.err
	}

	return &model.Transcript{Text: t.text}, nil
}

func newGuard(t *testing.T, primary, fallback string) *guard.Guard {
	g, err := guard.New(guard.Budget{Fraction: 0.5, Primary: primary, Fallback: fallback})
	require.NoError(t, err)

	return g
}

func TestSynthesizeEmptyText(t *testing.T) {
	runtime := &testSynthesizer{rate: 22050}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""))
	require.NoError(t, err)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := s.Synthesize(context.Background(), input, nil)
		require.ErrorIs(t, err, provider.ErrInvalidInput)
	}

	require.Equal(t, int64(0), runtime.calls.Load())
}

func TestSynthesize(t *testing.T) {
	runtime := &testSynthesizer{rate: 22050}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""))
	require.NoError(t, err)

	result, err := s.Synthesize(context.Background(), "т.д.  и  цифра 5", nil)
	require.NoError(t, err)

	require.Equal(t, []string{"так далее и цифра пять"}, runtime.texts)
	require.Equal(t, "vits", result.Model)
	require.Equal(t, audio.ContentTypeWAV, result.ContentType)
	require.Equal(t, 22050, result.SampleRate)
	require.NotEmpty(t, result.ID)

	w, err := audio.DecodeWAV(bytes.NewReader(result.Content))
	require.NoError(t, err)

	require.Equal(t, 22050, w.SampleRate)
	require.Len(t, w.Samples, int(math.Round(2205/1.08)))
	require.LessOrEqual(t, audio.Peak(w.Samples), float32(0.81))
}

func TestSynthesizeFamilyRate(t *testing.T) {
	runtime := &testSynthesizer{}

	s, err := NewSynthesizer(runtime, newGuard(t, "speecht5", ""), WithFamily(FamilySpeechT5), WithEnhancement(false))
	require.NoError(t, err)

	result, err := s.Synthesize(context.Background(), "привет", nil)
	require.NoError(t, err)
	require.Equal(t, 16000, result.SampleRate)

	w, err := audio.DecodeWAV(bytes.NewReader(result.Content))
	require.NoError(t, err)

	require.Len(t, w.Samples, 2205)
	require.InDelta(t, 0.95, audio.Peak(w.Samples), 1e-3)
}

func TestSynthesizePCM(t *testing.T) {
	runtime := &testSynthesizer{rate: 22050}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""))
	require.NoError(t, err)

	result, err := s.Synthesize(context.Background(), "привет", &provider.SynthesizeOptions{Format: "pcm"})
	require.NoError(t, err)

	require.Equal(t, "audio/pcm", result.ContentType)
	require.Equal(t, 24000, result.SampleRate)
	require.Zero(t, len(result.Content)%2)
}

func TestSynthesizeUnsupportedFormat(t *testing.T) {
	runtime := &testSynthesizer{rate: 22050}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""))
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "привет", &provider.SynthesizeOptions{Format: "flac"})
	require.ErrorIs(t, err, provider.ErrInvalidInput)
	require.Equal(t, int64(0), runtime.calls.Load())
}

func TestSynthesizeDowngrade(t *testing.T) {
	runtime := &testSynthesizer{
		rate: 22050,

		err: func(model string) error {
			if model == "large" {
				return provider.ErrResourceExhausted
			}

			return nil
		},
	}

	g := newGuard(t, "large", "small")

	s, err := NewSynthesizer(runtime, g)
	require.NoError(t, err)

	result, err := s.Synthesize(context.Background(), "привет", nil)
	require.NoError(t, err)

	require.Equal(t, "small", result.Model)
	require.Equal(t, []string{"large", "small"}, runtime.models)
	require.True(t, g.Downgraded())
}

func TestSynthesizeModelError(t *testing.T) {
	runtime := &testSynthesizer{
		err: func(string) error {
			return errors.New("boom")
		},
	}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""))
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "привет", nil)
	require.ErrorIs(t, err, provider.ErrModel)
}

func TestSynthesizeMarkdown(t *testing.T) {
	runtime := &testSynthesizer{rate: 22050}

	s, err := NewSynthesizer(runtime, newGuard(t, "vits", ""), WithMarkdown(true))
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "# Итог\n\n- первый\n- второй\n", nil)
	require.NoError(t, err)

	require.Equal(t, []string{"Итог. первый. второй."}, runtime.texts)
}

func TestTranscribeEmptyAudio(t *testing.T) {
	runtime := &testTranscriber{}

	tr, err := NewTranscriber(runtime, newGuard(t, "base", "tiny"))
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), provider.File{Name: "audio.wav"}, nil)
	require.ErrorIs(t, err, provider.ErrInvalidInput)
	require.Equal(t, int64(0), runtime.calls.Load())
}

func TestTranscribeLanguage(t *testing.T) {
	runtime := &testTranscriber{text: "  привет мир \n"}

	tr, err := NewTranscriber(runtime, newGuard(t, "base", "tiny"), WithTempDir(t.TempDir()))
	require.NoError(t, err)

	file := provider.File{Name: "audio.ogg", Content: []byte("data")}

	for _, hint := range []string{"auto", "", "ru", "EN", "de"} {
		result, err := tr.Transcribe(context.Background(), file, &provider.TranscribeOptions{Language: hint})
		require.NoError(t, err)
		require.Equal(t, "привет мир", result.Text)
	}

	require.Equal(t, []string{"", "", "russian", "english", "de"}, runtime.languages)
}

func TestTranscribeTempFileRemoved(t *testing.T) {
	dir := t.TempDir()

	file := provider.File{Name: "audio.wav", Content: []byte("data")}

	runtime := &testTranscriber{text: "ok"}

	tr, err := NewTranscriber(runtime, newGuard(t, "base", ""), WithTempDir(dir))
	require.NoError(t, err)

	_, err = tr.Transcribe(context.Background(), file, nil)
	require.NoError(t, err)

	runtime.err = errors.New("decoder failed")

	_, err = tr.Transcribe(context.Background(), file, nil)
	require.ErrorIs(t, err, provider.ErrModel)

	runtime.err = provider.ErrResourceExhausted

	_, err = tr.Transcribe(context.Background(), file, nil)
	require.ErrorIs(t, err, provider.ErrResourceExhausted)

	require.Equal(t, []bool{true, true, true}, runtime.existed)

	for _, input := range runtime.inputs {
		require.Equal(t, ".wav", input.Path[len(input.Path)-4:])
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTranscribeDuration(t *testing.T) {
	data, err := audio.EncodeWAV(audio.Waveform{Samples: make([]float32, 8000), SampleRate: 16000})
	require.NoError(t, err)

	tr, err := NewTranscriber(&testTranscriber{text: "x"}, newGuard(t, "base", ""), WithTempDir(t.TempDir()))
	require.NoError(t, err)

	result, err := tr.Transcribe(context.Background(), provider.File{Name: "a.wav", Content: data}, &provider.TranscribeOptions{Language: "uk"})
	require.NoError(t, err)

	require.InDelta(t, 0.5, result.Duration, 1e-6)
	require.Equal(t, "ukrainian", result.Language)
}

func TestMapLanguage(t *testing.T) {
	require.Equal(t, "", MapLanguage(DefaultLanguages, "auto"))
	require.Equal(t, "", MapLanguage(DefaultLanguages, " AUTO "))
	require.Equal(t, "russian", MapLanguage(DefaultLanguages, "ru"))
	require.Equal(t, "fr", MapLanguage(DefaultLanguages, "fr"))
}

func TestFamilySampleRate(t *testing.T) {
	require.Equal(t, 22050, FamilyVITS.SampleRate())
	require.Equal(t, 16000, FamilySpeechT5.SampleRate())
	require.Equal(t, 0, Family("unknown").SampleRate())
}
