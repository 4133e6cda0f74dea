package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/adrianliechti/murmur/pkg/provider"

	"github.com/openai/openai-go/v3"
)

var outOfMemoryMarkers = []string{
	"out of memory",
	"outofmemory",
	"insufficient memory",
	"failed to allocate",
}

// convertError maps memory exhaustion reported by the server to
// provider.ErrResourceExhausted.
func convertError(err error) error {
	var apierr *openai.Error

	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusInsufficientStorage || isOutOfMemory(apierr.Error()) {
			return fmt.Errorf("%w: %w", provider.ErrResourceExhausted, err)
		}

		return err
	}

	if isOutOfMemory(err.Error()) {
		return fmt.Errorf("%w: %w", provider.ErrResourceExhausted, err)
	}

	return err
}

func isOutOfMemory(message string) bool {
	message = strings.ToLower(message)

	for _, marker := range outOfMemoryMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}

	return false
}
