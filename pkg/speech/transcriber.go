package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/google/uuid"
)

var _ provider.Transcriber = (*Transcriber)(nil)

// Transcriber stages an upload on disk, invokes the model under the guard
// and cleans up the transcript.
type Transcriber struct {
	model model.Transcriber
	guard *guard.Guard

	dir       string
	languages map[string]string

	prompt      string
	temperature *float32
}

type TranscriberOption func(*Transcriber)

// WithTempDir sets where uploads are staged. Defaults to os.TempDir.
func WithTempDir(dir string) TranscriberOption {
	return func(t *Transcriber) {
		t.dir = dir
	}
}

func WithLanguages(languages map[string]string) TranscriberOption {
	return func(t *Transcriber) {
		t.languages = languages
	}
}

func WithPrompt(prompt string) TranscriberOption {
	return func(t *Transcriber) {
		t.prompt = prompt
	}
}

func WithTemperature(temperature float32) TranscriberOption {
	return func(t *Transcriber) {
		t.temperature = &temperature
	}
}

func NewTranscriber(m model.Transcriber, g *guard.Guard, options ...TranscriberOption) (*Transcriber, error) {
	if m == nil {
		return nil, errors.New("model runtime is required")
	}

	if g == nil {
		return nil, errors.New("guard is required")
	}

	t := &Transcriber{
		model: m,
		guard: g,

		languages: DefaultLanguages,
	}

	for _, option := range options {
		option(t)
	}

	return t, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, input provider.File, options *provider.TranscribeOptions) (*provider.Transcription, error) {
	if options == nil {
		options = new(provider.TranscribeOptions)
	}

	if len(input.Content) == 0 {
		return nil, fmt.Errorf("%w: audio file is required", provider.ErrInvalidInput)
	}

	path, err := t.stage(input)

	if err != nil {
		return nil, err
	}

	defer os.Remove(path)

	language := MapLanguage(t.languages, options.Language)

	prompt := options.Prompt

	if prompt == "" {
		prompt = t.prompt
	}

	temperature := options.Temperature

	if temperature == nil {
		temperature = t.temperature
	}

	var transcript *model.Transcript

	attempt, err := t.guard.Invoke(ctx, guard.OperationTranscribe, func(ctx context.Context, name string) error {
		result, err := t.model.Transcribe(ctx, name, model.Input{
			Name: input.Name,
			Path: path,

			Content:     input.Content,
			ContentType: input.ContentType,
		}, &model.TranscribeOptions{
			Language: language,
			Prompt:   prompt,

			Temperature: temperature,
		})

		if err != nil {
			return err
		}

		transcript = result
		return nil
	})

	if err != nil {
		slog.ErrorContext(ctx, "transcription failed", "model", attempt.Model, "error", err)
		return nil, err
	}

	if transcript == nil {
		return nil, fmt.Errorf("%w: model returned no transcript", provider.ErrModel)
	}

	result := &provider.Transcription{
		ID:    uuid.NewString(),
		Model: attempt.Model,

		Text:     strings.TrimSpace(transcript.Text),
		Language: transcript.Language,

		Duration: transcript.Duration,
	}

	if result.Language == "" {
		result.Language = language
	}

	if result.Duration == 0 && audio.IsWAV(input.Content) {
		if w, err := audio.DecodeWAV(bytes.NewReader(input.Content)); err == nil {
			result.Duration = w.Duration().Seconds()
		}
	}

	slog.DebugContext(ctx, "transcription completed", "model", attempt.Model, "duration", attempt.Duration, "language", result.Language)

	return result, nil
}

// stage writes the upload to a temporary file. The caller removes it.
func (t *Transcriber) stage(input provider.File) (string, error) {
	f, err := os.CreateTemp(t.dir, "upload-*"+filepath.Ext(input.Name))

	if err != nil {
		return "", err
	}

	path := f.Name()

	if _, err := f.Write(input.Content); err != nil {
		f.Close()
		os.Remove(path)

		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}
