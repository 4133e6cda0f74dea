package exec

import (
	"context"
	"errors"
	"strconv"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"
)

var _ model.Synthesizer = (*Piper)(nil)

// Piper runs the piper binary, which writes headerless 16-bit mono PCM at
// the voice's native sample rate.
type Piper struct {
	*Config

	sampleRate int
}

func NewPiper(bin string, sampleRate int, options ...Option) (*Piper, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sample rate is required")
	}

	if bin == "" {
		bin = "piper"
	}

	cfg := &Config{
		bin: bin,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Piper{
		Config: cfg,

		sampleRate: sampleRate,
	}, nil
}

func (p *Piper) Synthesize(ctx context.Context, name, text string, options *model.SynthesizeOptions) (*audio.Waveform, error) {
	if options == nil {
		options = new(model.SynthesizeOptions)
	}

	args := []string{"--model", p.modelPath(name), "--output-raw"}

	if _, err := strconv.Atoi(options.Voice); err == nil {
		args = append(args, "--speaker", options.Voice)
	}

	if options.Speed != nil && *options.Speed > 0 {
		args = append(args, "--length_scale", strconv.FormatFloat(1/float64(*options.Speed), 'f', 3, 64))
	}

	args = append(args, p.args...)

	data, err := run(ctx, p.bin, []byte(text+"\n"), args...)

	if err != nil {
		return nil, err
	}

	w := audio.DecodePCM16(data, p.sampleRate)

	return &w, nil
}
