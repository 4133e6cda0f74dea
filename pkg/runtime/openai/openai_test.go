package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/murmur/pkg/audio"
	"github.com/adrianliechti/murmur/pkg/model"
	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/pkg/runtime/openai"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch body["model"] {
		case "large":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "CUDA out of memory. Tried to allocate 2.00 GiB"}`))
			return

		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "model not loaded"}`))
			return
		}

		require.Equal(t, "wav", body["response_format"])
		require.Equal(t, "af_bella", body["voice"])

		data, err := audio.EncodeWAV(audio.Waveform{Samples: make([]float32, 2400), SampleRate: 24000})
		require.NoError(t, err)

		w.Header().Set("Content-Type", "audio/wav")
		w.Write(data)
	})

	mux.HandleFunc("POST /v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		if r.FormValue("model") == "large" {
			w.WriteHeader(http.StatusInsufficientStorage)
			w.Write([]byte(`{"error": {"message": "insufficient memory"}}`))
			return
		}

		require.Equal(t, "verbose_json", r.FormValue("response_format"))

		f, _, err := r.FormFile("file")
		require.NoError(t, err)

		data, _ := io.ReadAll(f)
		require.Equal(t, "data", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": " hello world ", "language": "english", "duration": 1.5}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestSynthesize(t *testing.T) {
	server := newServer(t)

	s, err := openai.NewSynthesizer(server.URL+"/v1", openai.WithVoice("af_bella"))
	require.NoError(t, err)

	result, err := s.Synthesize(context.Background(), "kokoro", "hello", nil)
	require.NoError(t, err)

	require.Equal(t, 24000, result.SampleRate)
	require.Len(t, result.Samples, 2400)
}

func TestSynthesizeOutOfMemory(t *testing.T) {
	server := newServer(t)

	s, err := openai.NewSynthesizer(server.URL + "/v1")
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "large", "hello", nil)
	require.ErrorIs(t, err, provider.ErrResourceExhausted)

	_, err = s.Synthesize(context.Background(), "broken", "hello", nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, provider.ErrResourceExhausted)
}

func TestTranscribe(t *testing.T) {
	server := newServer(t)

	tr, err := openai.NewTranscriber(server.URL + "/v1")
	require.NoError(t, err)

	result, err := tr.Transcribe(context.Background(), "base", model.Input{Name: "a.wav", Content: []byte("data")}, &model.TranscribeOptions{Language: "en"})
	require.NoError(t, err)

	require.Equal(t, " hello world ", result.Text)
	require.Equal(t, "english", result.Language)
	require.Equal(t, 1.5, result.Duration)

	_, err = tr.Transcribe(context.Background(), "large", model.Input{Name: "a.wav", Content: []byte("data")}, nil)
	require.ErrorIs(t, err, provider.ErrResourceExhausted)
}
