package exec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/adrianliechti/murmur/pkg/provider"
)

var outOfMemoryMarkers = []string{
	"out of memory",
	"failed to allocate",
	"bad_alloc",
	"cannot allocate memory",
}

// run executes the command and maps memory failures reported on stderr to
// provider.ErrResourceExhausted.
func run(ctx context.Context, bin string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())

		if isOutOfMemory(message) {
			return nil, fmt.Errorf("%w: %s", provider.ErrResourceExhausted, lastLine(message))
		}

		if message != "" {
			return nil, fmt.Errorf("%s: %w: %s", bin, err, lastLine(message))
		}

		return nil, fmt.Errorf("%s: %w", bin, err)
	}

	return stdout.Bytes(), nil
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

func lastLine(s string) string {
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}

	return s
}
