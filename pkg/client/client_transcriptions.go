package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/openai/openai-go/v3"
)

type TranscriptionService struct {
	Options []RequestOption
}

func NewTranscriptionService(opts ...RequestOption) TranscriptionService {
	return TranscriptionService{
		Options: opts,
	}
}

type Transcription = provider.Transcription
type TranscribeOptions = provider.TranscribeOptions

type TranscribeRequest struct {
	TranscribeOptions

	Model string

	Name   string
	Reader io.Reader
}

func (r *TranscriptionService) New(ctx context.Context, input TranscribeRequest, opts ...RequestOption) (*Transcription, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	data, err := io.ReadAll(input.Reader)

	if err != nil {
		return nil, err
	}

	model := input.Model

	if model == "" {
		model = "default"
	}

	params := openai.AudioTranscriptionNewParams{
		Model: model,

		File: openai.File(bytes.NewReader(data), input.Name, ""),

		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}

	if input.Language != "" {
		params.Language = openai.String(input.Language)
	}

	if input.Prompt != "" {
		params.Prompt = openai.String(input.Prompt)
	}

	if input.Temperature != nil {
		params.Temperature = openai.Float(float64(*input.Temperature))
	}

	transcriptions := openai.NewAudioTranscriptionService(cfg.openaiOptions()...)

	transcription, err := transcriptions.New(ctx, params)

	if err != nil {
		return nil, err
	}

	result := &provider.Transcription{
		Model: model,

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
