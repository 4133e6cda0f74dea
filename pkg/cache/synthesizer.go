package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/google/uuid"
)

var _ provider.Synthesizer = (*Synthesizer)(nil)

// Synthesizer serves repeated synthesis requests from the cache.
type Synthesizer struct {
	name  string
	cache *Cache

	synthesizer provider.Synthesizer
}

type synthesisEntry struct {
	Model string `msgpack:"model"`

	Content     []byte `msgpack:"content"`
	ContentType string `msgpack:"content_type"`

	SampleRate int           `msgpack:"sample_rate"`
	Duration   time.Duration `msgpack:"duration"`
}

func NewSynthesizer(name string, cache *Cache, p provider.Synthesizer) *Synthesizer {
	return &Synthesizer{
		name:  name,
		cache: cache,

		synthesizer: p,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, input string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	if options == nil {
		options = new(provider.SynthesizeOptions)
	}

	key := synthesisKey(s.name, input, options)

	var entry synthesisEntry

	if err := s.cache.Get(key, &entry); err == nil {
		return &provider.Synthesis{
			ID:    uuid.NewString(),
			Model: entry.Model,

			Content:     entry.Content,
			ContentType: entry.ContentType,

			SampleRate: entry.SampleRate,
			Duration:   entry.Duration,
		}, nil
	} else if !errors.Is(err, ErrNotFound) {
		slog.WarnContext(ctx, "cache lookup failed", "error", err)
	}

	result, err := s.synthesizer.Synthesize(ctx, input, options)

	if err != nil {
		return nil, err
	}

	entry = synthesisEntry{
		Model: result.Model,

		Content:     result.Content,
		ContentType: result.ContentType,

		SampleRate: result.SampleRate,
		Duration:   result.Duration,
	}

	if err := s.cache.Set(key, entry); err != nil {
		slog.WarnContext(ctx, "cache store failed", "error", err)
	}

	return result, nil
}

func synthesisKey(name, input string, options *provider.SynthesizeOptions) []byte {
	h := sha256.New()

	for _, s := range []string{name, input, options.Voice, options.Instructions, options.Format} {
		binary.Write(h, binary.LittleEndian, uint64(len(s)))
		h.Write([]byte(s))
	}

	speed := math.NaN()

	if options.Speed != nil {
		speed = float64(*options.Speed)
	}

	binary.Write(h, binary.LittleEndian, math.Float64bits(speed))

	return append([]byte("synthesis:"), h.Sum(nil)...)
}
