package otel

import (
	"context"
	"fmt"
	"testing"

	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/stretchr/testify/require"
)

type testSynthesizer struct {
	err error
}

func (s *testSynthesizer) Synthesize(ctx context.Context, input string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &provider.Synthesis{Model: "vits", Content: []byte(input)}, nil
}

type testTranscriber struct{}

func (testTranscriber) Transcribe(ctx context.Context, input provider.File, options *provider.TranscribeOptions) (*provider.Transcription, error) {
	return &provider.Transcription{Model: "base", Text: "ok"}, nil
}

func TestSynthesizer(t *testing.T) {
	s := NewSynthesizer("openai", "default", &testSynthesizer{})

	result, err := s.Synthesize(context.Background(), "hello", nil)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), result.Content)

	failing := NewSynthesizer("openai", "default", &testSynthesizer{err: fmt.Errorf("%w: oom", provider.ErrResourceExhausted)})

	_, err = failing.Synthesize(context.Background(), "hello", nil)
	require.ErrorIs(t, err, provider.ErrResourceExhausted)
}

func TestTranscriber(t *testing.T) {
	tr := NewTranscriber("exec", "default", testTranscriber{})

	result, err := tr.Transcribe(context.Background(), provider.File{Content: []byte("x")}, nil)
	require.NoError(t, err)
	require.Equal(t, "ok", result.Text)
}

func TestErrorType(t *testing.T) {
	require.Equal(t, "invalid_input", errorType(fmt.Errorf("%w: empty", provider.ErrInvalidInput)))
	require.Equal(t, "resource_exhausted", errorType(fmt.Errorf("%w: oom", provider.ErrResourceExhausted)))
	require.Equal(t, "model_error", errorType(fmt.Errorf("%w: crash", provider.ErrModel)))
	require.Equal(t, "encoding_error", errorType(fmt.Errorf("%w: wav", provider.ErrEncoding)))
	require.Equal(t, "error", errorType(context.Canceled))
}

func TestGuardObserver(t *testing.T) {
	g, err := guard.New(guard.Budget{Fraction: 0.5, Primary: "large", Fallback: "small"}, guard.WithObserver(NewGuardObserver()))
	require.NoError(t, err)

	calls := 0

	_, err = g.Invoke(context.Background(), guard.OperationTranscribe, func(ctx context.Context, model string) error {
		calls++

		if model == "large" {
			return fmt.Errorf("%w: oom", provider.ErrResourceExhausted)
		}

		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, "small", g.Active())
}
