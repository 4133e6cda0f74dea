package openai_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func postAudio(t *testing.T, server *httptest.Server, field, format string) *http.Response {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile(field, "speech.wav")
	require.NoError(t, err)

	part.Write([]byte("audio"))

	if format != "" {
		w.WriteField("response_format", format)
	}

	require.NoError(t, w.Close())

	resp, err := http.Post(server.URL+"/v1/audio/transcriptions", w.FormDataContentType(), &body)
	require.NoError(t, err)

	return resp
}
