package config

import (
	"bytes"
	"errors"
	"os"
	"sort"

	"github.com/adrianliechti/murmur/pkg/accelerator"
	"github.com/adrianliechti/murmur/pkg/auth"
	"github.com/adrianliechti/murmur/pkg/cache"
	"github.com/adrianliechti/murmur/pkg/guard"
	"github.com/adrianliechti/murmur/pkg/provider"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	Accelerator accelerator.Accelerator

	cache *cache.Cache

	models map[string]provider.Model
	guards map[string]*guard.Guard

	synthesizer map[string]provider.Synthesizer
	transcriber map[string]provider.Transcriber
}

// Parse reads the YAML configuration at path and applies MURMUR_*
// environment overrides. An empty path configures a single OpenAI-compatible
// runtime from the environment.
func Parse(path string) (*Config, error) {
	file := defaultFile()

	if path != "" {
		f, err := parseFile(path)

		if err != nil {
			return nil, err
		}

		file = f
	}

	if err := applyEnvironment(file); err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerAccelerator(file); err != nil {
		return nil, err
	}

	if err := c.registerCache(file); err != nil {
		return nil, err
	}

	runtimes, err := createRuntimes(file)

	if err != nil {
		return nil, err
	}

	if err := c.registerSynthesizers(file, runtimes); err != nil {
		return nil, err
	}

	if err := c.registerTranscribers(file, runtimes); err != nil {
		return nil, err
	}

	if len(c.synthesizer) == 0 && len(c.transcriber) == 0 {
		return nil, errors.New("no synthesizers or transcribers configured")
	}

	return c, nil
}

func (c *Config) Close() error {
	if c.cache != nil {
		return c.cache.Close()
	}

	return nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Accelerator acceleratorConfig `yaml:"accelerator"`
	Cache       *cacheConfig      `yaml:"cache"`

	Runtimes map[string]runtimeConfig `yaml:"runtimes"`

	Synthesizers map[string]synthesizerConfig `yaml:"synthesizers"`
	Transcribers map[string]transcriberConfig `yaml:"transcribers"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) RegisterModel(id string) {
	if c.models == nil {
		c.models = make(map[string]provider.Model)
	}

	c.models[id] = provider.Model{
		ID: id,
	}
}

func (c *Config) Models() []provider.Model {
	var result []provider.Model

	for _, m := range c.models {
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

func (c *Config) RegisterGuard(id string, g *guard.Guard) {
	if c.guards == nil {
		c.guards = make(map[string]*guard.Guard)
	}

	c.guards[id] = g
}

// Guards returns the guard of every configured pipeline, keyed by
// "synthesizer/<id>" or "transcriber/<id>".
func (c *Config) Guards() map[string]*guard.Guard {
	return c.guards
}

// keys returns the map keys in registration order: "default" first, then
// alphabetical. The first key serves requests that name no model.
func keys[V any](m map[string]V) []string {
	result := make([]string, 0, len(m))

	for k := range m {
		result = append(result, k)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i] == "default" || result[j] == "default" {
			return result[i] == "default"
		}

		return result[i] < result[j]
	})

	return result
}
