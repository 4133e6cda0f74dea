package model

import (
	"context"

	"github.com/adrianliechti/murmur/pkg/audio"
)

// Synthesizer is a text-to-speech runtime. It returns raw samples at the
// model's native sample rate and signals memory exhaustion with
// provider.ErrResourceExhausted.
type Synthesizer interface {
	Synthesize(ctx context.Context, model, text string, options *SynthesizeOptions) (*audio.Waveform, error)
}

type SynthesizeOptions struct {
	Voice string
	Speed *float32

	Instructions string
}

// Transcriber is a speech-to-text runtime. An empty language lets the model
// detect it.
type Transcriber interface {
	Transcribe(ctx context.Context, model string, input Input, options *TranscribeOptions) (*Transcript, error)
}

// Input is an upload staged on disk. Content holds the same bytes for
// runtimes that stream the upload instead of reading the file.
type Input struct {
	Name string
	Path string

	Content     []byte
	ContentType string
}

type TranscribeOptions struct {
	Language string
	Prompt   string

	Temperature *float32
}

type Transcript struct {
	Text     string
	Language string

	Duration float64
}
