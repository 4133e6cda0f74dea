package provider

import (
	"context"
	"time"
)

// Synthesizer turns text into encoded speech. Empty input fails with
// ErrInvalidInput.
type Synthesizer interface {
	Synthesize(ctx context.Context, input string, options *SynthesizeOptions) (*Synthesis, error)
}

type SynthesizeOptions struct {
	Voice string
	Speed *float32

	Instructions string

	// Format is "wav" (default) or "pcm".
	Format string
}

type Synthesis struct {
	ID    string
	Model string

	Content     []byte
	ContentType string

	SampleRate int
	Duration   time.Duration
}
