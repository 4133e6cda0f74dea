package openai_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/murmur/config"
	"github.com/adrianliechti/murmur/pkg/provider"
	handler "github.com/adrianliechti/murmur/server/openai"

	"github.com/go-chi/chi/v5"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/require"
)

type testSynthesizer struct {
	input   string
	options *provider.SynthesizeOptions

	err error
}

func (s *testSynthesizer) Synthesize(ctx context.Context, input string, options *provider.SynthesizeOptions) (*provider.Synthesis, error) {
	s.input = input
	s.options = options

	if s.err != nil {
		return nil, s.err
	}

	return &provider.Synthesis{
		Content:     []byte("RIFF"),
		ContentType: "audio/wav",
	}, nil
}

type testTranscriber struct {
	input   provider.File
	options *provider.TranscribeOptions

	err error
}

func (t *testTranscriber) Transcribe(ctx context.Context, input provider.File, options *provider.TranscribeOptions) (*provider.Transcription, error) {
	t.input = input
	t.options = options

	if t.err != nil {
		return nil, t.err
	}

	return &provider.Transcription{
		Text:     "привет мир",
		Language: "russian",
		Duration: 1.5,
	}, nil
}

func newTestServer(t *testing.T, s provider.Synthesizer, tr provider.Transcriber) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.RegisterSynthesizer("default", s)
	cfg.RegisterTranscriber("whisper", tr)

	h, err := handler.New(cfg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/v1", h.Attach)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

func newTestClient(server *httptest.Server) openai.Client {
	return openai.NewClient(
		option.WithBaseURL(server.URL+"/v1/"),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
}

func TestAudioSpeech(t *testing.T) {
	s := &testSynthesizer{}
	client := newTestClient(newTestServer(t, s, &testTranscriber{}))

	resp, err := client.Audio.Speech.New(context.Background(), openai.AudioSpeechNewParams{
		Model: "tts-1",
		Input: "Привет",

		Voice: openai.AudioSpeechNewParamsVoiceAlloy,

		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})

	require.NoError(t, err)

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, "RIFF", string(data))
	require.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))

	require.Equal(t, "Привет", s.input)
	require.Equal(t, "alloy", s.options.Voice)
	require.Equal(t, "wav", s.options.Format)
}

func TestAudioSpeechTextAlias(t *testing.T) {
	s := &testSynthesizer{}
	server := newTestServer(t, s, &testTranscriber{})

	resp, err := http.Post(server.URL+"/v1/audio/speech", "application/json", strings.NewReader(`{"text":"Текст"}`))
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Текст", s.input)
}

func TestAudioSpeechErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"malformed", `{`, nil, http.StatusBadRequest},
		{"empty", `{"input":""}`, nil, http.StatusBadRequest},
		{"invalid", `{"input":"x"}`, fmt.Errorf("%w: unsupported response format", provider.ErrInvalidInput), http.StatusBadRequest},
		{"exhausted", `{"input":"x"}`, fmt.Errorf("%w: oom", provider.ErrResourceExhausted), http.StatusServiceUnavailable},
		{"model", `{"input":"x"}`, fmt.Errorf("%w: crashed", provider.ErrModel), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &testSynthesizer{err: tt.err}, &testTranscriber{})

			resp, err := http.Post(server.URL+"/v1/audio/speech", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)

			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)

			require.Equal(t, tt.code, resp.StatusCode)
			require.Contains(t, string(body), `"error"`)
		})
	}
}

func TestAudioTranscription(t *testing.T) {
	tr := &testTranscriber{}
	client := newTestClient(newTestServer(t, &testSynthesizer{}, tr))

	result, err := client.Audio.Transcriptions.New(context.Background(), openai.AudioTranscriptionNewParams{
		Model: "whisper-1",

		File: openai.File(bytes.NewReader([]byte("audio")), "speech.wav", "audio/wav"),

		Language: openai.String("ru"),
		Prompt:   openai.String("Разговор"),

		ResponseFormat: openai.AudioResponseFormatJSON,
	})

	require.NoError(t, err)
	require.Equal(t, "привет мир", result.Text)

	require.Equal(t, "speech.wav", tr.input.Name)
	require.Equal(t, []byte("audio"), tr.input.Content)
	require.Equal(t, "ru", tr.options.Language)
	require.Equal(t, "Разговор", tr.options.Prompt)
}

func TestAudioTranscriptionFormats(t *testing.T) {
	server := newTestServer(t, &testSynthesizer{}, &testTranscriber{})

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"text", "text/plain", "привет мир"},
		{"verbose_json", "application/json", `"duration":1.5`},
		{"", "application/json", `"language":"russian"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := postAudio(t, server, "file", tt.format)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Contains(t, resp.Header.Get("Content-Type"), tt.contentType)
			require.Contains(t, string(body), tt.contains)
		})
	}
}

func TestAudioTranscriptionErrors(t *testing.T) {
	server := newTestServer(t, &testSynthesizer{}, &testTranscriber{})

	resp := postAudio(t, server, "audio", "")
	resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postAudio(t, server, "file", "srt")
	resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	server = newTestServer(t, &testSynthesizer{}, &testTranscriber{err: fmt.Errorf("%w: %w", provider.ErrResourceExhausted, errors.New("oom"))})

	resp = postAudio(t, server, "file", "")
	resp.Body.Close()

	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestModels(t *testing.T) {
	client := newTestClient(newTestServer(t, &testSynthesizer{}, &testTranscriber{}))

	page, err := client.Models.List(context.Background())
	require.NoError(t, err)

	var ids []string

	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}

	require.Equal(t, []string{"default", "whisper"}, ids)

	_, err = client.Models.Get(context.Background(), "unknown")
	require.Error(t, err)
}
