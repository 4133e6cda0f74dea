package static

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/adrianliechti/murmur/pkg/auth"
)

// Provider accepts a fixed set of API keys. Each key maps to the user name
// recorded for the request.
type Provider struct {
	tokens map[string]string
}

func New(tokens map[string]string) (*Provider, error) {
	return &Provider{
		tokens: tokens,
	}, nil
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if len(p.tokens) == 0 {
		return ctx, nil
	}

	token, err := auth.BearerToken(r)

	if err != nil {
		return ctx, err
	}

	for key, user := range p.tokens {
		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) != 1 {
			continue
		}

		if user == "" {
			user = "static"
		}

		return context.WithValue(ctx, auth.UserContextKey, user), nil
	}

	return ctx, errors.New("invalid token")
}
