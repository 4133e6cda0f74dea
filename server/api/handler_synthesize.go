package api

import (
	"errors"
	"net/http"

	"github.com/adrianliechti/murmur/pkg/provider"
	"github.com/adrianliechti/murmur/server/shared"
)

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	req, err := readSynthesizeRequest(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	text := req.Text

	if isBlank(text) {
		text = req.Input
	}

	if isBlank(text) {
		writeError(w, http.StatusBadRequest, errors.New("no text provided"))
		return
	}

	p, err := h.Synthesizer(req.Model)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	options := &provider.SynthesizeOptions{
		Voice: req.Voice,
		Speed: req.Speed,

		Format: "wav",
	}

	synthesis, err := p.Synthesize(r.Context(), text, options)

	if err != nil {
		shared.WriteProviderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", synthesis.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="speech.wav"`)

	w.WriteHeader(http.StatusOK)
	w.Write(synthesis.Content)
}
