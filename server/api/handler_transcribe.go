package api

import (
	"net/http"

	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/server/shared"
)

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	model := valueModel(r)
	language := valueLanguage(r)

	p, err := h.Transcriber(model)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input, err := h.readFile(r, "audio", "file")

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	options := &provider.TranscribeOptions{
		Language: language,
	}

	transcription, err := p.Transcribe(r.Context(), *input, options)

	if err != nil {
		shared.WriteProviderError(w, r, err)
		return
	}

	writeJson(w, Transcription{
		Transcription: transcription.Text,
		Language:      transcription.Language,
	})
}
