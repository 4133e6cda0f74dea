package openai

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"

	"github.com/openai/openai-go/v3"
)

var _ model.Synthesizer = (*Synthesizer)(nil)

type Synthesizer struct {
	*Config
	client openai.Client
}

func NewSynthesizer(url string, options ...Option) (*Synthesizer, error) {
	cfg := newConfig(url, options...)

	return &Synthesizer{
		Config: cfg,
		client: openai.NewClient(cfg.Options()...),
	}, nil
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`

	Voice string   `json:"voice,omitempty"`
	Speed *float32 `json:"speed,omitempty"`

	Instructions string `json:"instructions,omitempty"`

	ResponseFormat string `json:"response_format"`
}

func (s *Synthesizer) Synthesize(ctx context.Context, name, text string, options *model.SynthesizeOptions) (*audio.Waveform, error) {
	if options == nil {
		options = new(model.SynthesizeOptions)
	}

	voice := options.Voice

	if voice == "" {
		voice = s.voice
	}

	body := speechRequest{
		Model: name,
		Input: text,

		Voice: voice,
		Speed: options.Speed,

		Instructions: options.Instructions,

		ResponseFormat: "wav",
	}

	// The typed speech client restricts voices to the hosted catalogue, local
	// servers name their voices freely.
	var resp *http.Response

	if err := s.client.Post(ctx, "audio/speech", body, &resp); err != nil {
		return nil, convertError(err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if audio.IsWAV(data) {
		return audio.DecodeWAV(bytes.NewReader(data))
	}

	if s.sampleRate > 0 {
		w := audio.DecodePCM16(data, s.sampleRate)
		return &w, nil
	}

	return nil, errors.New("unexpected speech response: not a wav container")
}
