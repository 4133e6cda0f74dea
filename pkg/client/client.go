package client

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

type Client struct {
	Models ModelService

	Syntheses      SynthesisService
	Transcriptions TranscriptionService

	Status StatusService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Models: NewModelService(opts...),

		Syntheses:      NewSynthesisService(opts...),
		Transcriptions: NewTranscriptionService(opts...),

		Status: NewStatusService(opts...),
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.URL = strings.TrimRight(c.URL, "/")

	return c
}

// openaiOptions configures the OpenAI SDK for the /v1 surface of the server.
func (c *RequestConfig) openaiOptions() []option.RequestOption {
	token := c.Token

	if token == "" {
		token = "-"
	}

	options := []option.RequestOption{
		option.WithBaseURL(c.URL + "/v1/"),
		option.WithAPIKey(token),
		option.WithMaxRetries(0),
	}

	if c.Client != nil {
		options = append(options, option.WithHTTPClient(c.Client))
	}

	return options
}

func Ptr[T any](v T) *T {
	return &v
}
