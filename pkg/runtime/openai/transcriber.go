package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/adrianliechti/murmur/pkg/model"

	"github.com/openai/openai-go/v3"
)

var _ model.Transcriber = (*Transcriber)(nil)

type Transcriber struct {
	*Config
	transcriptions openai.AudioTranscriptionService
}

func NewTranscriber(url string, options ...Option) (*Transcriber, error) {
	cfg := newConfig(url, options...)

	return &Transcriber{
		Config:         cfg,
		transcriptions: openai.NewAudioTranscriptionService(cfg.Options()...),
	}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, name string, input model.Input, options *model.TranscribeOptions) (*model.Transcript, error) {
	if options == nil {
		options = new(model.TranscribeOptions)
	}

	content := input.Content

	if len(content) == 0 && input.Path != "" {
		data, err := os.ReadFile(input.Path)

		if err != nil {
			return nil, err
		}

		content = data
	}

	filename := input.Name

	if filename == "" {
		filename = "audio.wav"
	}

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(name),

		File: openai.File(bytes.NewReader(content), filename, input.ContentType),

		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}

	if options.Language != "" {
		params.Language = openai.String(options.Language)
	}

	if options.Prompt != "" {
		params.Prompt = openai.String(options.Prompt)
	}

	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}

	transcription, err := t.transcriptions.New(ctx, params)

	if err != nil {
		return nil, convertError(err)
	}

	result := &model.Transcript{
		Text: transcription.Text,
	}

	var metadata struct {
		Language string  `json:"language"`
		Duration float64 `json:"duration"`
	}

	if err := json.Unmarshal([]byte(transcription.RawJSON()), &metadata); err == nil {
		result.Language = metadata.Language
		result.Duration = metadata.Duration
	}

	return result, nil
}
