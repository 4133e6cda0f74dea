package roundrobin

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/router"
)

// mockRuntime is a configurable runtime for testing
type mockRuntime struct {
	err   error
	rate  int
	calls atomic.Int64
}

func (m *mockRuntime) Synthesize(ctx context.Context, name, text string, options *model.SynthesizeOptions) (*audio.Waveform, error) {
	m.calls.Add(1)

	if m.err != nil {
		return nil, m.err
	}

	return &audio.Waveform{
		Samples:    []float32{0.1, 0.2},
		SampleRate: m.rate,
	}, nil
}

func (m *mockRuntime) Transcribe(ctx context.Context, name string, input model.Input, options *model.TranscribeOptions) (*model.Transcript, error) {
	m.calls.Add(1)

	if m.err != nil {
		return nil, m.err
	}

	return &model.Transcript{
		Text: fmt.Sprintf("rate %d", m.rate),
	}, nil
}

func TestNew(t *testing.T) {
	if _, err := NewSynthesizer(); err == nil {
		t.Error("expected error for empty synthesizers")
	}

	if _, err := NewTranscriber(); err == nil {
		t.Error("expected error for empty transcribers")
	}
}

func TestSynthesize(t *testing.T) {
	t.Run("routes to available runtime", func(t *testing.T) {
		mock := &mockRuntime{rate: 22050}
		s, _ := NewSynthesizer(mock)

		wave, err := s.Synthesize(context.Background(), "vits", "test", nil)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if wave.SampleRate != 22050 {
			t.Errorf("expected 22050, got %d", wave.SampleRate)
		}
	})

	t.Run("records failure on error", func(t *testing.T) {
		mock := &mockRuntime{err: errors.New("runtime error")}
		s, _ := NewSynthesizer(mock)

		if _, err := s.Synthesize(context.Background(), "vits", "test", nil); err == nil {
			t.Error("expected error")
		}

		state, _, _, failures, _ := s.stats[0].GetMetrics()

		if failures != 1 {
			t.Errorf("expected 1 failure, got %d", failures)
		}

		if state != router.CircuitClosed {
			t.Errorf("expected circuit closed after 1 failure")
		}
	})

	t.Run("ignores resource exhaustion", func(t *testing.T) {
		mock := &mockRuntime{err: fmt.Errorf("%w: out of memory", provider.ErrResourceExhausted)}
		s, _ := NewSynthesizer(mock)

		for i := 0; i < router.DefaultFailureThreshold; i++ {
			_, err := s.Synthesize(context.Background(), "vits", "test", nil)

			if !errors.Is(err, provider.ErrResourceExhausted) {
				t.Fatalf("expected resource exhaustion, got %v", err)
			}
		}

		state, _, _, failures, _ := s.stats[0].GetMetrics()

		if failures != 0 || state != router.CircuitClosed {
			t.Errorf("expected healthy runtime, got %d failures", failures)
		}
	})

	t.Run("opens circuit after threshold failures", func(t *testing.T) {
		mock := &mockRuntime{err: errors.New("runtime error")}
		s, _ := NewSynthesizer(mock)

		for i := 0; i < router.DefaultFailureThreshold; i++ {
			s.Synthesize(context.Background(), "vits", "test", nil)
		}

		state, _, _, _, _ := s.stats[0].GetMetrics()

		if state != router.CircuitOpen {
			t.Errorf("expected circuit open after %d failures", router.DefaultFailureThreshold)
		}
	})
}

func TestRandomDistribution(t *testing.T) {
	mock1 := &mockRuntime{rate: 1}
	mock2 := &mockRuntime{rate: 2}
	mock3 := &mockRuntime{rate: 3}

	tr, _ := NewTranscriber(mock1, mock2, mock3)

	for i := 0; i < 300; i++ {
		tr.Transcribe(context.Background(), "base", model.Input{}, nil)
	}

	// Each should get roughly 100 calls, allow 50% variance for randomness
	for i, calls := range []int64{mock1.calls.Load(), mock2.calls.Load(), mock3.calls.Load()} {
		if calls < 50 || calls > 150 {
			t.Errorf("runtime %d got %d calls, expected roughly 100", i+1, calls)
		}
	}
}

func TestCircuitBreaker(t *testing.T) {
	t.Run("skips open circuit runtimes", func(t *testing.T) {
		failing := &mockRuntime{err: errors.New("error")}
		healthy := &mockRuntime{rate: 16000}

		s, _ := NewSynthesizer(failing, healthy)

		for i := 0; i < router.DefaultFailureThreshold; i++ {
			s.stats[0].RecordFailure(s.failureThreshold)
		}

		for i := 0; i < 20; i++ {
			if _, err := s.Synthesize(context.Background(), "vits", "test", nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if failing.calls.Load() != 0 {
			t.Errorf("expected no calls to failing runtime, got %d", failing.calls.Load())
		}
	})

	t.Run("recovers circuit after timeout", func(t *testing.T) {
		mock := &mockRuntime{err: errors.New("error")}
		s, _ := NewSynthesizer(mock)

		s.recoveryTimeout = 10 * time.Millisecond

		for i := 0; i < router.DefaultFailureThreshold; i++ {
			s.Synthesize(context.Background(), "vits", "test", nil)
		}

		state, _, _, _, _ := s.stats[0].GetMetrics()

		if state != router.CircuitOpen {
			t.Fatal("expected circuit to be open")
		}

		time.Sleep(20 * time.Millisecond)

		mock.err = nil
		mock.rate = 24000

		wave, err := s.Synthesize(context.Background(), "vits", "test", nil)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if wave.SampleRate != 24000 {
			t.Errorf("expected 24000, got %d", wave.SampleRate)
		}

		state, _, _, _, _ = s.stats[0].GetMetrics()

		if state != router.CircuitClosed {
			t.Errorf("expected circuit closed after recovery, got %v", state)
		}
	})
}

func TestFallback(t *testing.T) {
	mock1 := &mockRuntime{err: errors.New("error")}
	mock2 := &mockRuntime{err: errors.New("error")}

	s, _ := NewSynthesizer(mock1, mock2)
	s.recoveryTimeout = time.Hour

	for i := 0; i < router.DefaultFailureThreshold; i++ {
		s.stats[0].RecordFailure(s.failureThreshold)
		s.stats[1].RecordFailure(s.failureThreshold)
	}

	mock1.err = nil
	mock2.err = nil

	if _, err := s.Synthesize(context.Background(), "vits", "test", nil); err != nil {
		t.Fatalf("expected fallback runtime to serve, got %v", err)
	}
}
