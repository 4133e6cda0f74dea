package config

import (
	"errors"
	"time"

	"github.com/adrianliechti/murmur/pkg/audio/enhancer"
	"github.com/adrianliechti/murmur/pkg/cache"
	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/limiter"
	"github.com/adrianliechti/murmur/pkg/otel"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/speech"
	"github.com/adrianliechti/murmur/pkg/text"
)

type synthesizerConfig struct {
	Runtime string `yaml:"runtime"`
	Family  string `yaml:"family"`

	Model    string   `yaml:"model"`
	Fallback string   `yaml:"fallback"`
	Fraction *float64 `yaml:"fraction"`

	Voice      string `yaml:"voice"`
	SampleRate int    `yaml:"sample_rate"`

	Enhance  *bool `yaml:"enhance"`
	Markdown bool  `yaml:"markdown"`

	Cache *bool `yaml:"cache"`
	Limit *int  `yaml:"limit"`

	Normalizer normalizerConfig `yaml:"normalizer"`
	Enhancer   enhancerConfig   `yaml:"enhancer"`
}

type normalizerConfig struct {
	MaxLength    *int `yaml:"max_length"`
	MaxSentences *int `yaml:"max_sentences"`

	Abbreviations map[string]string `yaml:"abbreviations"`
}

type enhancerConfig struct {
	PitchFactor *float64 `yaml:"pitch_factor"`

	Cutoff      *float64 `yaml:"cutoff"`
	FilterOrder *int     `yaml:"filter_order"`

	Threshold *float64 `yaml:"threshold"`
	Ratio     *float64 `yaml:"ratio"`

	ReverbDelay *time.Duration `yaml:"reverb_delay"`
	ReverbDecay *float64       `yaml:"reverb_decay"`

	Ceiling *float64 `yaml:"ceiling"`

	Drive *float64 `yaml:"drive"`
	Scale *float64 `yaml:"scale"`
}

func (c *Config) RegisterSynthesizer(id string, s provider.Synthesizer) {
	c.RegisterModel(id)

	if c.synthesizer == nil {
		c.synthesizer = make(map[string]provider.Synthesizer)
	}

	if _, ok := c.synthesizer[""]; !ok {
		c.synthesizer[""] = s
	}

	c.synthesizer[id] = s
}

// Synthesizer returns the pipeline registered as id. Unknown identifiers,
// such as OpenAI model names, resolve to the default pipeline.
func (c *Config) Synthesizer(id string) (provider.Synthesizer, error) {
	if s, ok := c.synthesizer[id]; ok {
		return s, nil
	}

	if s, ok := c.synthesizer[""]; ok {
		return s, nil
	}

	return nil, errors.New("synthesizer not found: " + id)
}

func (c *Config) registerSynthesizers(f *configFile, runtimes map[string]runtime) error {
	for _, id := range keys(f.Synthesizers) {
		cfg := f.Synthesizers[id]

		r, ok := runtimes[cfg.Runtime]

		if !ok || r.Synthesizer == nil {
			return errors.New("synthesizer " + id + ": runtime " + cfg.Runtime + " cannot synthesize")
		}

		fraction := 0.6

		if cfg.Fraction != nil {
			fraction = *cfg.Fraction
		}

		g, err := guard.New(guard.Budget{
			Fraction: fraction,

			Primary:  cfg.Model,
			Fallback: cfg.Fallback,
		}, c.guardOptions()...)

		if err != nil {
			return errors.New("synthesizer " + id + ": " + err.Error())
		}

		p, err := speech.NewSynthesizer(r.Synthesizer, g, synthesizerOptions(cfg)...)

		if err != nil {
			return errors.New("synthesizer " + id + ": " + err.Error())
		}

		var s provider.Synthesizer = p

		if c.cache != nil && (cfg.Cache == nil || *cfg.Cache) {
			s = cache.NewSynthesizer(id, c.cache, s)
		}

		if cfg.Limit != nil {
			s = limiter.NewSynthesizer(limiter.New(*cfg.Limit), s)
		}

		s = otel.NewSynthesizer(r.Type, id, s)

		c.RegisterGuard("synthesizer/"+id, g)
		c.RegisterSynthesizer(id, s)
	}

	return nil
}

func (c *Config) guardOptions() []guard.Option {
	options := []guard.Option{
		guard.WithObserver(otel.NewGuardObserver()),
	}

	if c.Accelerator != nil {
		options = append(options, guard.WithAccelerator(c.Accelerator))
	}

	return options
}

func synthesizerOptions(cfg synthesizerConfig) []speech.SynthesizerOption {
	options := []speech.SynthesizerOption{
		speech.WithNormalizer(normalizer(cfg.Normalizer)),
		speech.WithEnhancer(enhancer.New(enhancerOptions(cfg.Enhancer)...)),
		speech.WithMarkdown(cfg.Markdown),
	}

	if cfg.Family != "" {
		options = append(options, speech.WithFamily(speech.Family(cfg.Family)))
	}

	if cfg.Enhance != nil {
		options = append(options, speech.WithEnhancement(*cfg.Enhance))
	}

	if cfg.Voice != "" {
		options = append(options, speech.WithVoice(cfg.Voice))
	}

	if cfg.SampleRate > 0 {
		options = append(options, speech.WithSampleRate(cfg.SampleRate))
	}

	return options
}

func normalizer(cfg normalizerConfig) *text.Normalizer {
	var options []text.Option

	if cfg.MaxLength != nil {
		options = append(options, text.WithMaxLength(*cfg.MaxLength))
	}

	if cfg.MaxSentences != nil {
		options = append(options, text.WithMaxSentences(*cfg.MaxSentences))
	}

	if len(cfg.Abbreviations) > 0 {
		options = append(options, text.WithAbbreviations(cfg.Abbreviations))
	}

	return text.NewNormalizer(options...)
}

func enhancerOptions(cfg enhancerConfig) []enhancer.Option {
	d := enhancer.DefaultConfig()

	var options []enhancer.Option

	if cfg.PitchFactor != nil {
		options = append(options, enhancer.WithPitchFactor(*cfg.PitchFactor))
	}

	if cfg.Cutoff != nil {
		options = append(options, enhancer.WithCutoff(*cfg.Cutoff))
	}

	if cfg.FilterOrder != nil {
		options = append(options, enhancer.WithFilterOrder(*cfg.FilterOrder))
	}

	if cfg.Threshold != nil || cfg.Ratio != nil {
		options = append(options, enhancer.WithCompression(value(cfg.Threshold, d.Threshold), value(cfg.Ratio, d.Ratio)))
	}

	if cfg.ReverbDelay != nil || cfg.ReverbDecay != nil {
		options = append(options, enhancer.WithReverb(value(cfg.ReverbDelay, d.ReverbDelay), value(cfg.ReverbDecay, d.ReverbDecay)))
	}

	if cfg.Ceiling != nil {
		options = append(options, enhancer.WithCeiling(*cfg.Ceiling))
	}

	if cfg.Drive != nil || cfg.Scale != nil {
		options = append(options, enhancer.WithSaturation(value(cfg.Drive, d.Drive), value(cfg.Scale, d.Scale)))
	}

	return options
}

func value[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}

	return *v
}
