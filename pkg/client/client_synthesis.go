package client

import (
	"context"
	"io"

	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/openai/openai-go/v3"
)

type SynthesisService struct {
	Options []RequestOption
}

func NewSynthesisService(opts ...RequestOption) SynthesisService {
	return SynthesisService{
		Options: opts,
	}
}

type Synthesis = provider.Synthesis
type SynthesizeOptions = provider.SynthesizeOptions

type SynthesizeRequest struct {
	SynthesizeOptions

	Model string

	Input string
}

func (r *SynthesisService) New(ctx context.Context, input SynthesizeRequest, opts ...RequestOption) (*Synthesis, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	format := input.Format

	if format == "" {
		format = "wav"
	}

	params := openai.AudioSpeechNewParams{
		Model: input.Model,
		Input: input.Input,

		Voice: openai.AudioSpeechNewParamsVoice(input.Voice),

		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(format),
	}

	if input.Speed != nil {
		params.Speed = openai.Float(float64(*input.Speed))
	}

	if input.Instructions != "" {
		params.Instructions = openai.String(input.Instructions)
	}

	speech := openai.NewAudioSpeechService(cfg.openaiOptions()...)

	resp, err := speech.New(ctx, params)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	return &provider.Synthesis{
		Model: input.Model,

		Content:     data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
