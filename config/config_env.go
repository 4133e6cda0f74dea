package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// environment holds the MURMUR_* overrides. Unset variables leave the file
// configuration untouched.
type environment struct {
	Address *string `env:"ADDRESS"`

	RuntimeURL   string `env:"RUNTIME_URL" envDefault:"http://localhost:8880/v1"`
	RuntimeToken string `env:"RUNTIME_TOKEN"`

	SynthesisModel    string `env:"SYNTHESIS_MODEL" envDefault:"kokoro"`
	SynthesisFallback string `env:"SYNTHESIS_FALLBACK"`
	SynthesisFamily   string `env:"SYNTHESIS_FAMILY" envDefault:"kokoro"`
	SynthesisVoice    string `env:"SYNTHESIS_VOICE"`

	TranscriptionModel    string `env:"TRANSCRIPTION_MODEL" envDefault:"base"`
	TranscriptionFallback string `env:"TRANSCRIPTION_FALLBACK" envDefault:"tiny"`

	SynthesisFraction     *float64 `env:"SYNTHESIS_FRACTION"`
	TranscriptionFraction *float64 `env:"TRANSCRIPTION_FRACTION"`

	Enhance *bool `env:"ENHANCE"`

	PitchFactor *float64 `env:"PITCH_FACTOR"`
	Cutoff      *float64 `env:"LOWPASS_CUTOFF"`

	CompressionThreshold *float64 `env:"COMPRESSION_THRESHOLD"`
	CompressionRatio     *float64 `env:"COMPRESSION_RATIO"`

	ReverbDelay *time.Duration `env:"REVERB_DELAY"`
	ReverbDecay *float64       `env:"REVERB_DECAY"`

	Ceiling *float64 `env:"NORMALIZE_CEILING"`

	SaturationDrive *float64 `env:"SATURATION_DRIVE"`
	SaturationScale *float64 `env:"SATURATION_SCALE"`

	MaxTextLength *int `env:"MAX_TEXT_LENGTH"`
}

func parseEnvironment() (*environment, error) {
	var e environment

	if err := env.ParseWithOptions(&e, env.Options{Prefix: "MURMUR_"}); err != nil {
		return nil, err
	}

	return &e, nil
}

// defaultFile is used without a configuration file: one OpenAI-compatible
// runtime serving both pipelines.
func defaultFile() *configFile {
	e, err := parseEnvironment()

	if err != nil {
		e = &environment{
			RuntimeURL: "http://localhost:8880/v1",

			SynthesisModel:  "kokoro",
			SynthesisFamily: "kokoro",

			TranscriptionModel:    "base",
			TranscriptionFallback: "tiny",
		}
	}

	return &configFile{
		Runtimes: map[string]runtimeConfig{
			"default": {
				Type: "openai",

				URL:   e.RuntimeURL,
				Token: e.RuntimeToken,
			},
		},

		Synthesizers: map[string]synthesizerConfig{
			"default": {
				Runtime: "default",

				Model:    e.SynthesisModel,
				Fallback: e.SynthesisFallback,
				Family:   e.SynthesisFamily,
				Voice:    e.SynthesisVoice,
			},
		},

		Transcribers: map[string]transcriberConfig{
			"default": {
				Runtime: "default",

				Model:    e.TranscriptionModel,
				Fallback: e.TranscriptionFallback,
			},
		},
	}
}

func applyEnvironment(f *configFile) error {
	e, err := parseEnvironment()

	if err != nil {
		return err
	}

	if e.Address != nil {
		f.Address = *e.Address
	}

	for id, s := range f.Synthesizers {
		set(&s.Fraction, e.SynthesisFraction)
		set(&s.Enhance, e.Enhance)

		set(&s.Normalizer.MaxLength, e.MaxTextLength)

		set(&s.Enhancer.PitchFactor, e.PitchFactor)
		set(&s.Enhancer.Cutoff, e.Cutoff)
		set(&s.Enhancer.Threshold, e.CompressionThreshold)
		set(&s.Enhancer.Ratio, e.CompressionRatio)
		set(&s.Enhancer.ReverbDelay, e.ReverbDelay)
		set(&s.Enhancer.ReverbDecay, e.ReverbDecay)
		set(&s.Enhancer.Ceiling, e.Ceiling)
		set(&s.Enhancer.Drive, e.SaturationDrive)
		set(&s.Enhancer.Scale, e.SaturationScale)

		f.Synthesizers[id] = s
	}

	for id, t := range f.Transcribers {
		set(&t.Fraction, e.TranscriptionFraction)

		f.Transcribers[id] = t
	}

	return nil
}

func set[T any](dst **T, value *T) {
	if value != nil {
		*dst = value
	}
}
