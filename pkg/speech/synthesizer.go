package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/audio/enhancer"
	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/text"

	"github.com/google/uuid"
)

const (
	FormatWAV = "wav"
	FormatPCM = "pcm"

	// pcmSampleRate matches the raw PCM output of the OpenAI speech API.
	pcmSampleRate = 24000
)

var _ provider.Synthesizer = (*Synthesizer)(nil)

// Utterance is one synthesis request's text before and after normalization.
type Utterance struct {
	Raw        string
	Normalized string
}

// Synthesizer turns text into playable speech: normalize, invoke the model
// under the guard, enhance, encode.
type Synthesizer struct {
	model model.Synthesizer
	guard *guard.Guard

	family     Family
	normalizer *text.Normalizer
	enhancer   *enhancer.Enhancer

	enhance  bool
	markdown bool

	voice      string
	sampleRate int
}

type SynthesizerOption func(*Synthesizer)

func WithFamily(family Family) SynthesizerOption {
	return func(s *Synthesizer) {
		s.family = family
	}
}

func WithNormalizer(n *text.Normalizer) SynthesizerOption {
	return func(s *Synthesizer) {
		s.normalizer = n
	}
}

func WithEnhancer(e *enhancer.Enhancer) SynthesizerOption {
	return func(s *Synthesizer) {
		s.enhancer = e
	}
}

// WithEnhancement toggles the enhancement chain. When disabled the output
// is only peak-normalized.
func WithEnhancement(enabled bool) SynthesizerOption {
	return func(s *Synthesizer) {
		s.enhance = enabled
	}
}

// WithMarkdown strips Markdown from inputs that look like it before
// normalization.
func WithMarkdown(enabled bool) SynthesizerOption {
	return func(s *Synthesizer) {
		s.markdown = enabled
	}
}

func WithVoice(voice string) SynthesizerOption {
	return func(s *Synthesizer) {
		s.voice = voice
	}
}

// WithSampleRate resamples WAV output to a fixed rate instead of the model's
// native rate.
func WithSampleRate(rate int) SynthesizerOption {
	return func(s *Synthesizer) {
		s.sampleRate = rate
	}
}

func NewSynthesizer(m model.Synthesizer, g *guard.Guard, options ...SynthesizerOption) (*Synthesizer, error) {
	if m == nil {
		return nil, errors.New("model runtime is required")
	}

	if g == nil {
		return nil, errors.New("guard is required")
	}

	s := &Synthesizer{
		model: m,
		guard: g,

		family:     FamilyVITS,
		normalizer: text.NewNormalizer(),
		enhancer:   enhancer.New(),

		enhance: true,
	}

	for _, option := range options {
		option(s)
	}

	return s, nil
}

func (s *Synthesizer) Prepare(input string) (*Utterance, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: text is required", provider.ErrInvalidInput)
	}

	raw := input

	if s.markdown && text.IsMarkdown(raw) {
		raw = text.StripMarkdown(raw)
	}

	normalized := s.normalizer.Normalize(raw)

	if normalized == "" {
		return nil, fmt.Errorf("%w: text has no speakable content", provider.ErrInvalidInput)
	}

	return &Utterance{
		Raw:        input,
		Normalized: normalized,
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, input string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	if options == nil {
		options = new(provider.SynthesizeOptions)
	}

	format := strings.ToLower(options.Format)

	if format == "" {
		format = FormatWAV
	}

	if format != FormatWAV && format != FormatPCM {
		return nil, fmt.Errorf("%w: unsupported response format %q", provider.ErrInvalidInput, options.Format)
	}

	utterance, err := s.Prepare(input)

	if err != nil {
		return nil, err
	}

	voice := options.Voice

	if voice == "" {
		voice = s.voice
	}

	var wave *audio.Waveform

	attempt, err := s.guard.Invoke(ctx, guard.OperationSynthesize, func(ctx context.Context, name string) error {
		result, err := s.model.Synthesize(ctx, name, utterance.Normalized, &model.SynthesizeOptions{
			Voice: voice,
			Speed: options.Speed,

			Instructions: options.Instructions,
		})

		if err != nil {
			return err
		}

		wave = result
		return nil
	})

	if err != nil {
		slog.ErrorContext(ctx, "synthesis failed", "model", attempt.Model, "error", err)
		return nil, err
	}

	if wave == nil || len(wave.Samples) == 0 {
		return nil, fmt.Errorf("%w: model returned no audio", provider.ErrModel)
	}

	raw := *wave

	if raw.SampleRate <= 0 {
		raw.SampleRate = s.family.SampleRate()
	}

	if raw.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: unknown sample rate", provider.ErrModel)
	}

	var enhanced audio.Waveform

	if s.enhance {
		enhanced = s.enhancer.Enhance(raw)
	} else {
		enhanced = s.enhancer.Normalize(raw)
	}

	content, contentType, sampleRate, err := s.encode(enhanced, format)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrEncoding, err)
	}

	slog.DebugContext(ctx, "synthesis completed", "model", attempt.Model, "duration", attempt.Duration, "samples", len(enhanced.Samples))

	return &provider.Synthesis{
		ID:    uuid.NewString(),
		Model: attempt.Model,

		Content:     content,
		ContentType: contentType,

		SampleRate: sampleRate,
		Duration:   enhanced.Duration(),
	}, nil
}

func (s *Synthesizer) encode(w audio.Waveform, format string) ([]byte, string, int, error) {
	switch format {
	case FormatPCM:
		resampled, err := audio.Resample(w, pcmSampleRate)

		if err != nil {
			return nil, "", 0, err
		}

		return audio.EncodePCM16(resampled), "audio/pcm", pcmSampleRate, nil

	default:
		if s.sampleRate > 0 && s.sampleRate != w.SampleRate {
			resampled, err := audio.Resample(w, s.sampleRate)

			if err != nil {
				return nil, "", 0, err
			}

			w = resampled
		}

		data, err := audio.EncodeWAV(w)

		if err != nil {
			return nil, "", 0, err
		}

		return data, audio.ContentTypeWAV, w.SampleRate, nil
	}
}
