package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

// Config points at an OpenAI-compatible inference server such as
// Kokoro-FastAPI, LocalAI, speaches or the whisper.cpp server.
type Config struct {
	url string

	token string
	voice string

	// sampleRate is used when the server answers with headerless PCM.
	sampleRate int

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func WithVoice(voice string) Option {
	return func(c *Config) {
		c.voice = voice
	}
}

func WithSampleRate(rate int) Option {
	return func(c *Config) {
		c.sampleRate = rate
	}
}

func newConfig(url string, options ...Option) *Config {
	cfg := &Config{
		url: url,
	}

	for _, option := range options {
		option(cfg)
	}

	return cfg
}

func (c *Config) Options() []option.RequestOption {
	if c.url == "" {
		c.url = "http://localhost:8880/v1/"
	}

	if c.client == nil {
		c.client = http.DefaultClient
	}

	c.url = strings.TrimRight(c.url, "/") + "/"

	options := []option.RequestOption{
		option.WithBaseURL(c.url),
		option.WithHTTPClient(c.client),
		option.WithMaxRetries(0),
	}

	if c.token != "" {
		options = append(options, option.WithAPIKey(c.token))
	} else {
		options = append(options, option.WithAPIKey("-"))
	}

	return options
}
