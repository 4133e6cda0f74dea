package config

import (
	"errors"
	"strings"

	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/router/roundrobin"
	"github.com/adrianliechti/murmur/pkg/runtime/exec"
	"github.com/adrianliechti/murmur/pkg/runtime/openai"
)

type runtimeConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Voice      string `yaml:"voice"`
	SampleRate int    `yaml:"sample_rate"`

	Bin    string            `yaml:"bin"`
	Models map[string]string `yaml:"models"`
	Args   []string          `yaml:"args"`

	// Runtimes lists the members of a roundrobin runtime.
	Runtimes []string `yaml:"runtimes"`
}

// runtime is a model runtime. Either side may be nil when the runtime only
// serves one direction.
type runtime struct {
	Type string

	Synthesizer model.Synthesizer
	Transcriber model.Transcriber
}

func createRuntimes(f *configFile) (map[string]runtime, error) {
	result := make(map[string]runtime)

	var pools []string

	for _, id := range keys(f.Runtimes) {
		cfg := f.Runtimes[id]

		if strings.EqualFold(cfg.Type, "roundrobin") {
			pools = append(pools, id)
			continue
		}

		r, err := createRuntime(cfg)

		if err != nil {
			return nil, errors.New("runtime " + id + ": " + err.Error())
		}

		result[id] = *r
	}

	for _, id := range pools {
		r, err := roundrobinRuntime(f.Runtimes[id], result)

		if err != nil {
			return nil, errors.New("runtime " + id + ": " + err.Error())
		}

		result[id] = *r
	}

	return result, nil
}

func createRuntime(cfg runtimeConfig) (*runtime, error) {
	switch strings.ToLower(cfg.Type) {
	case "openai":
		return openaiRuntime(cfg)

	case "piper":
		return piperRuntime(cfg)

	case "whisper":
		return whisperRuntime(cfg)

	default:
		return nil, errors.New("invalid runtime type: " + cfg.Type)
	}
}

func openaiRuntime(cfg runtimeConfig) (*runtime, error) {
	var options []openai.Option

	if cfg.Token != "" {
		options = append(options, openai.WithToken(cfg.Token))
	}

	if cfg.Voice != "" {
		options = append(options, openai.WithVoice(cfg.Voice))
	}

	if cfg.SampleRate > 0 {
		options = append(options, openai.WithSampleRate(cfg.SampleRate))
	}

	s, err := openai.NewSynthesizer(cfg.URL, options...)

	if err != nil {
		return nil, err
	}

	t, err := openai.NewTranscriber(cfg.URL, options...)

	if err != nil {
		return nil, err
	}

	return &runtime{
		Type: "openai",

		Synthesizer: s,
		Transcriber: t,
	}, nil
}

func execOptions(cfg runtimeConfig) []exec.Option {
	var options []exec.Option

	if len(cfg.Models) > 0 {
		options = append(options, exec.WithModels(cfg.Models))
	}

	if len(cfg.Args) > 0 {
		options = append(options, exec.WithArgs(cfg.Args...))
	}

	return options
}

func piperRuntime(cfg runtimeConfig) (*runtime, error) {
	sampleRate := cfg.SampleRate

	if sampleRate <= 0 {
		sampleRate = 22050
	}

	s, err := exec.NewPiper(cfg.Bin, sampleRate, execOptions(cfg)...)

	if err != nil {
		return nil, err
	}

	return &runtime{
		Type: "piper",

		Synthesizer: s,
	}, nil
}

func whisperRuntime(cfg runtimeConfig) (*runtime, error) {
	t, err := exec.NewWhisper(cfg.Bin, execOptions(cfg)...)

	if err != nil {
		return nil, err
	}

	return &runtime{
		Type: "whisper",

		Transcriber: t,
	}, nil
}

// roundrobinRuntime balances over other runtimes. A direction is served
// when every member serves it.
func roundrobinRuntime(cfg runtimeConfig, runtimes map[string]runtime) (*runtime, error) {
	if len(cfg.Runtimes) == 0 {
		return nil, errors.New("roundrobin requires runtimes")
	}

	var synthesizers []model.Synthesizer
	var transcribers []model.Transcriber

	for _, id := range cfg.Runtimes {
		r, ok := runtimes[id]

		if !ok {
			return nil, errors.New("unknown runtime: " + id)
		}

		if r.Synthesizer != nil {
			synthesizers = append(synthesizers, r.Synthesizer)
		}

		if r.Transcriber != nil {
			transcribers = append(transcribers, r.Transcriber)
		}
	}

	result := &runtime{
		Type: "roundrobin",
	}

	if len(synthesizers) == len(cfg.Runtimes) {
		s, err := roundrobin.NewSynthesizer(synthesizers...)

		if err != nil {
			return nil, err
		}

		result.Synthesizer = s
	}

	if len(transcribers) == len(cfg.Runtimes) {
		t, err := roundrobin.NewTranscriber(transcribers...)

		if err != nil {
			return nil, err
		}

		result.Transcriber = t
	}

	return result, nil
}
