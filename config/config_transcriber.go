package config

import (
	"errors"

	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/limiter"
	"github.com/adrianliechti/murmur/pkg/otel"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/speech"
)

type transcriberConfig struct {
	Runtime string `yaml:"runtime"`

	Model    string   `yaml:"model"`
	Fallback string   `yaml:"fallback"`
	Fraction *float64 `yaml:"fraction"`

	Languages map[string]string `yaml:"languages"`

	Prompt      string   `yaml:"prompt"`
	Temperature *float32 `yaml:"temperature"`

	Limit   *int   `yaml:"limit"`
	TempDir string `yaml:"temp_dir"`
}

func (c *Config) RegisterTranscriber(id string, t provider.Transcriber) {
	c.RegisterModel(id)

	if c.transcriber == nil {
		c.transcriber = make(map[string]provider.Transcriber)
	}

	if _, ok := c.transcriber[""]; !ok {
		c.transcriber[""] = t
	}

	c.transcriber[id] = t
}

// Transcriber returns the pipeline registered as id. Unknown identifiers,
// such as OpenAI model names, resolve to the default pipeline.
func (c *Config) Transcriber(id string) (provider.Transcriber, error) {
	if t, ok := c.transcriber[id]; ok {
		return t, nil
	}

	if t, ok := c.transcriber[""]; ok {
		return t, nil
	}

	return nil, errors.New("transcriber not found: " + id)
}

func (c *Config) registerTranscribers(f *configFile, runtimes map[string]runtime) error {
	for _, id := range keys(f.Transcribers) {
		cfg := f.Transcribers[id]

		r, ok := runtimes[cfg.Runtime]

		if !ok || r.Transcriber == nil {
			return errors.New("transcriber " + id + ": runtime " + cfg.Runtime + " cannot transcribe")
		}

		fraction := 0.4

		if cfg.Fraction != nil {
			fraction = *cfg.Fraction
		}

		g, err := guard.New(guard.Budget{
			Fraction: fraction,

			Primary:  cfg.Model,
			Fallback: cfg.Fallback,
		}, c.guardOptions()...)

		if err != nil {
			return errors.New("transcriber " + id + ": " + err.Error())
		}

		p, err := speech.NewTranscriber(r.Transcriber, g, transcriberOptions(cfg)...)

		if err != nil {
			return errors.New("transcriber " + id + ": " + err.Error())
		}

		var t provider.Transcriber = p

		if cfg.Limit != nil {
			t = limiter.NewTranscriber(limiter.New(*cfg.Limit), t)
		}

		t = otel.NewTranscriber(r.Type, id, t)

		c.RegisterGuard("transcriber/"+id, g)
		c.RegisterTranscriber(id, t)
	}

	return nil
}

func transcriberOptions(cfg transcriberConfig) []speech.TranscriberOption {
	var options []speech.TranscriberOption

	if cfg.TempDir != "" {
		options = append(options, speech.WithTempDir(cfg.TempDir))
	}

	if len(cfg.Languages) > 0 {
		options = append(options, speech.WithLanguages(cfg.Languages))
	}

	if cfg.Prompt != "" {
		options = append(options, speech.WithPrompt(cfg.Prompt))
	}

	if cfg.Temperature != nil {
		options = append(options, speech.WithTemperature(*cfg.Temperature))
	}

	return options
}
