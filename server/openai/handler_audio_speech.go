package openai

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/server/shared"
)

func (h *Handler) handleAudioSpeech(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input := req.Input

	if input == "" {
		input = req.Text
	}

	if input == "" {
		writeError(w, http.StatusBadRequest, errors.New("no input text provided"))
		return
	}

	synthesizer, err := h.Synthesizer(req.Model)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	options := &provider.SynthesizeOptions{
		Voice: req.Voice,
		Speed: req.Speed,

		Format: req.ResponseFormat,

		Instructions: req.Instructions,
	}

	synthesis, err := synthesizer.Synthesize(r.Context(), input, options)

	if err != nil {
		shared.WriteProviderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", synthesis.ContentType)
	w.Write(synthesis.Content)
}
