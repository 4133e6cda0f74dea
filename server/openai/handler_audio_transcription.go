package openai

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/server/shared"
)

func (h *Handler) handleAudioTranscription(w http.ResponseWriter, r *http.Request) {
	transcriber, err := h.Transcriber(r.FormValue("model"))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("no audio file provided"))
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	contentType := header.Header.Get("Content-Type")

	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediatype
	}

	input := provider.File{
		Name: header.Filename,

		Content:     data,
		ContentType: contentType,
	}

	options := &provider.TranscribeOptions{
		Language: r.FormValue("language"),
		Prompt:   r.FormValue("prompt"),
	}

	if val := r.FormValue("temperature"); val != "" {
		temperature, err := strconv.ParseFloat(val, 32)

		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid temperature"))
			return
		}

		t := float32(temperature)
		options.Temperature = &t
	}

	format := r.FormValue("response_format")

	if format != "" && format != "json" && format != "text" && format != "verbose_json" {
		writeError(w, http.StatusBadRequest, errors.New("unsupported response format: "+format))
		return
	}

	transcription, err := transcriber.Transcribe(r.Context(), input, options)

	if err != nil {
		shared.WriteProviderError(w, r, err)
		return
	}

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, transcription.Text)

	case "verbose_json":
		writeJson(w, VerboseTranscription{
			Task: "transcribe",

			Language: transcription.Language,
			Duration: transcription.Duration,

			Text: transcription.Text,
		})

	default:
		writeJson(w, Transcription{
			Text: transcription.Text,

			Language: transcription.Language,
		})
	}
}
