package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/murmur/pkg/provider"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func WriteError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	resp := ErrorResponse{
		Error: http.StatusText(code),
	}

	if err != nil {
		resp.Error = err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(resp)
}

// WriteProviderError answers with the status code of a pipeline failure.
func WriteProviderError(w http.ResponseWriter, r *http.Request, err error) {
	code := StatusCode(err)

	if code >= 500 {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	WriteError(w, code, err)
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, provider.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, provider.ErrResourceExhausted):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
