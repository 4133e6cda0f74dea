package header

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/adrianliechti/murmur/pkg/auth"
)

// Provider trusts the identity headers set by an authenticating reverse
// proxy. When a secret is configured the proxy must also present it.
type Provider struct {
	userHeader  string
	emailHeader string

	secretHeader string
	secret       string
}

type Option func(*Provider)

func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		userHeader:  "X-Forwarded-User",
		emailHeader: "X-Forwarded-Email",

		secretHeader: "X-Proxy-Secret",
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func WithUserHeader(val string) Option {
	return func(p *Provider) {
		if val != "" {
			p.userHeader = val
		}
	}
}

func WithEmailHeader(val string) Option {
	return func(p *Provider) {
		if val != "" {
			p.emailHeader = val
		}
	}
}

func WithSecret(header, secret string) Option {
	return func(p *Provider) {
		if header != "" {
			p.secretHeader = header
		}

		p.secret = secret
	}
}

func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (context.Context, error) {
	if p.secret != "" {
		value := r.Header.Get(p.secretHeader)

		if subtle.ConstantTimeCompare([]byte(value), []byte(p.secret)) != 1 {
			return ctx, errors.New("invalid proxy secret")
		}
	}

	user := strings.TrimSpace(r.Header.Get(p.userHeader))
	email := strings.TrimSpace(r.Header.Get(p.emailHeader))

	if user == "" && email == "" {
		return ctx, errors.New("missing identity headers")
	}

	if user == "" {
		user = email
	}

	ctx = context.WithValue(ctx, auth.UserContextKey, user)

	if email != "" {
		ctx = context.WithValue(ctx, auth.EmailContextKey, email)
	}

	return ctx, nil
}
