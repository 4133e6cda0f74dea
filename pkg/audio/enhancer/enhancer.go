package enhancer

import (
	"math"
	"time"

	"github.com/adrianliechti/murmur/pkg/audio"
)

// Enhancer post-processes raw model output into speech suitable for
// playback. The chain runs in a fixed order: pitch shift, low-pass,
// compression, reverb, peak normalization, saturation.
type Enhancer struct {
	*Config
}

type Config struct {
	PitchFactor float64

	Cutoff      float64
	FilterOrder int

	Threshold float64
	Ratio     float64

	ReverbDelay time.Duration
	ReverbDecay float64

	Ceiling float64

	Drive float64
	Scale float64
}

type Option func(*Config)

func DefaultConfig() *Config {
	return &Config{
		PitchFactor: 1.08,

		Cutoff:      8000,
		FilterOrder: 6,

		Threshold: 0.6,
		Ratio:     4.0,

		ReverbDelay: 20 * time.Millisecond,
		ReverbDecay: 0.15,

		Ceiling: 0.95,

		Drive: 1.2,
		Scale: 0.8,
	}
}

func WithPitchFactor(factor float64) Option {
	return func(c *Config) {
		c.PitchFactor = factor
	}
}

func WithCutoff(hz float64) Option {
	return func(c *Config) {
		c.Cutoff = hz
	}
}

func WithFilterOrder(order int) Option {
	return func(c *Config) {
		c.FilterOrder = order
	}
}

func WithCompression(threshold, ratio float64) Option {
	return func(c *Config) {
		c.Threshold = threshold
		c.Ratio = ratio
	}
}

func WithReverb(delay time.Duration, decay float64) Option {
	return func(c *Config) {
		c.ReverbDelay = delay
		c.ReverbDecay = decay
	}
}

func WithCeiling(ceiling float64) Option {
	return func(c *Config) {
		c.Ceiling = ceiling
	}
}

func WithSaturation(drive, scale float64) Option {
	return func(c *Config) {
		c.Drive = drive
		c.Scale = scale
	}
}

func New(options ...Option) *Enhancer {
	cfg := DefaultConfig()

	for _, option := range options {
		option(cfg)
	}

	return &Enhancer{
		Config: cfg,
	}
}

func (e *Enhancer) Enhance(w audio.Waveform) audio.Waveform {
	x := sanitize(w.Samples)

	if len(x) == 0 || w.SampleRate <= 0 {
		return audio.FromFloat64(x, w.SampleRate)
	}

	x = PitchShift(x, e.PitchFactor)
	x = Lowpass(x, float64(w.SampleRate), e.Cutoff, e.FilterOrder)
	x = Compress(x, e.Threshold, e.Ratio)
	x = Reverb(x, delaySamples(e.ReverbDelay, w.SampleRate), e.ReverbDecay)
	x = Normalize(x, e.Ceiling)
	x = Saturate(x, e.Drive, e.Scale)

	return audio.FromFloat64(x, w.SampleRate)
}

// Normalize returns the waveform peak-normalized to ceiling. It is the only
// stage applied when enhancement is disabled.
func (e *Enhancer) Normalize(w audio.Waveform) audio.Waveform {
	x := Normalize(sanitize(w.Samples), e.Ceiling)
	return audio.FromFloat64(x, w.SampleRate)
}

func delaySamples(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

func sanitize(samples []float32) []float64 {
	result := make([]float64, len(samples))

	for i, s := range samples {
		v := float64(s)

		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}

		result[i] = v
	}

	return result
}
