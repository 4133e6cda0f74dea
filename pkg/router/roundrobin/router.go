package roundrobin

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/router"
)

var (
	_ model.Synthesizer = (*Synthesizer)(nil)
	_ model.Transcriber = (*Transcriber)(nil)
)

// balancer spreads requests randomly over healthy runtimes and keeps a
// circuit breaker per runtime.
type balancer struct {
	stats []*router.RuntimeStats

	failureThreshold int
	recoveryTimeout  time.Duration
}

func newBalancer(n int) *balancer {
	stats := make([]*router.RuntimeStats, n)

	for i := range stats {
		stats[i] = router.NewRuntimeStats()
	}

	return &balancer{
		stats: stats,

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}
}

// Synthesizer routes synthesis requests over several equivalent runtimes.
type Synthesizer struct {
	*balancer
	synthesizers []model.Synthesizer
}

func NewSynthesizer(synthesizers ...model.Synthesizer) (*Synthesizer, error) {
	if len(synthesizers) == 0 {
		return nil, errors.New("at least one synthesizer is required")
	}

	return &Synthesizer{
		balancer:     newBalancer(len(synthesizers)),
		synthesizers: synthesizers,
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, name, text string, options *model.SynthesizeOptions) (*audio.Waveform, error) {
	var result *audio.Waveform

	err := s.call(ctx, func(index int) error {
		wave, err := s.synthesizers[index].Synthesize(ctx, name, text, options)
		result = wave
		return err
	})

	return result, err
}

// Transcriber routes transcription requests over several equivalent
// runtimes.
type Transcriber struct {
	*balancer
	transcribers []model.Transcriber
}

func NewTranscriber(transcribers ...model.Transcriber) (*Transcriber, error) {
	if len(transcribers) == 0 {
		return nil, errors.New("at least one transcriber is required")
	}

	return &Transcriber{
		balancer:     newBalancer(len(transcribers)),
		transcribers: transcribers,
	}, nil
}

func (t *Transcriber) Transcribe(ctx context.Context, name string, input model.Input, options *model.TranscribeOptions) (*model.Transcript, error) {
	var result *model.Transcript

	err := t.call(ctx, func(index int) error {
		transcript, err := t.transcribers[index].Transcribe(ctx, name, input, options)
		result = transcript
		return err
	})

	return result, err
}

func (b *balancer) call(ctx context.Context, fn func(index int) error) error {
	index := b.selectRuntime()
	stats := b.stats[index]

	stats.AddInflight(1)
	defer stats.AddInflight(-1)

	start := time.Now()
	err := fn(index)

	switch {
	case err == nil:
		stats.RecordSuccess(time.Since(start))

	case countsAsFailure(ctx, err):
		stats.RecordFailure(b.failureThreshold)
	}

	return err
}

// countsAsFailure reports whether err says something about the runtime's
// health. Memory exhaustion is handled by the guard and bad input by the
// caller.
func countsAsFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	return !errors.Is(err, provider.ErrResourceExhausted) && !errors.Is(err, provider.ErrInvalidInput)
}

// selectRuntime randomly selects from available (healthy) runtimes
func (b *balancer) selectRuntime() int {
	candidates := make([]int, 0, len(b.stats))

	for i, stat := range b.stats {
		if stat.IsAvailable(b.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		// All circuits are open - fallback to least recently failed
		return b.fallbackRuntime()
	}

	return candidates[rand.Intn(len(candidates))]
}

// fallbackRuntime returns the least recently failed runtime when all circuits are open
func (b *balancer) fallbackRuntime() int {
	bestIndex := 0

	var oldestFailure time.Time

	for i, stat := range b.stats {
		lastFailure := stat.GetLastFailure()

		if i == 0 || lastFailure.Before(oldestFailure) {
			oldestFailure = lastFailure
			bestIndex = i
		}
	}

	b.stats[bestIndex].SetHalfOpen()

	return bestIndex
}
