package api

import (
	"net/http"

	"github.com/adrianliechti/murmur/config"
	"github.com/adrianliechti/murmur/server/shared"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config
}

func New(cfg *config.Config) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/synthesize", h.handleSynthesize)
	r.Post("/transcribe", h.handleTranscribe)

	r.Get("/memory_status", h.handleMemoryStatus)
}

func writeJson(w http.ResponseWriter, v any) {
	shared.WriteJson(w, v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	shared.WriteError(w, code, err)
}
