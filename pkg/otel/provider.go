package otel

import (
	"os"
)

const instrumentationName = "github.com/adrianliechti/murmur"

var (
	// EnableDebug records synthesized text and transcripts on spans.
	EnableDebug = false

	EnableTelemetry = false
)

// loadFlags reads DEBUG and TELEMETRY. Flags already switched on in code
// stay on.
func loadFlags() {
	EnableDebug = EnableDebug || os.Getenv("DEBUG") != ""
	EnableTelemetry = EnableTelemetry || os.Getenv("TELEMETRY") != ""
}
