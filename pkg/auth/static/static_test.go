package static

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/adrianliechti/murmur/pkg/auth"

	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p, err := New(map[string]string{
		"secret": "alice",
		"other":  "",
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		user   string
		fail   bool
	}{
		{"valid", "Bearer secret", "alice", false},
		{"default user", "bearer other", "static", false},
		{"missing", "", "", true},
		{"scheme", "Basic secret", "", true},
		{"wrong", "Bearer nope", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/v1/audio/speech", nil)

			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			ctx, err := p.Authenticate(context.Background(), r)

			if tt.fail {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.user, ctx.Value(auth.UserContextKey))
		})
	}
}

func TestAuthenticateDisabled(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	_, err = p.Authenticate(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
}
