package api

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/adrianliechti/murmur/pkg/provider"
)

func valueModel(r *http.Request) string {
	if val := r.FormValue("model"); val != "" {
		return val
	}

	return ""
}

func valueLanguage(r *http.Request) string {
	if val := r.FormValue("lang"); val != "" {
		return val
	}

	if val := r.FormValue("language"); val != "" {
		return val
	}

	return ""
}

// readSynthesizeRequest accepts a JSON body or form values.
func readSynthesizeRequest(r *http.Request) (*SynthesizeRequest, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if contentType == "application/json" {
		var req SynthesizeRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}

		return &req, nil
	}

	req := &SynthesizeRequest{
		Model: valueModel(r),

		Text:  r.FormValue("text"),
		Input: r.FormValue("input"),

		Voice: r.FormValue("voice"),
	}

	if val := r.FormValue("speed"); val != "" {
		speed, err := strconv.ParseFloat(val, 32)

		if err != nil {
			return nil, errors.New("invalid speed")
		}

		s := float32(speed)
		req.Speed = &s
	}

	return req, nil
}

func (h *Handler) readFile(r *http.Request, names ...string) (*provider.File, error) {
	for _, name := range names {
		file, header, err := r.FormFile(name)

		if err != nil {
			continue
		}

		defer file.Close()

		data, err := io.ReadAll(file)

		if err != nil {
			return nil, err
		}

		contentType := header.Header.Get("Content-Type")

		if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mediatype
		}

		return &provider.File{
			Name: header.Filename,

			Content:     data,
			ContentType: contentType,
		}, nil
	}

	return nil, errors.New("no audio file provided")
}

func (h *Handler) modelStatus() map[string]ModelStatus {
	result := make(map[string]ModelStatus)

	for id, g := range h.Guards() {
		budget := g.Budget()

		result[id] = ModelStatus{
			Primary:  budget.Primary,
			Fallback: budget.Fallback,

			Active:     g.Active(),
			Downgraded: g.Downgraded(),
		}
	}

	return result
}

func gigabytes(v uint64) float64 {
	return round(float64(v)/(1<<30), 2)
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
