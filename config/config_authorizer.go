package config

import (
	"context"
	"errors"
	"strings"

	"github.com/adrianliechti/murmur/pkg/auth/header"
	"github.com/adrianliechti/murmur/pkg/auth/oidc"
	"github.com/adrianliechti/murmur/pkg/auth/static"
)

type authorizerConfig struct {
	Type string `yaml:"type"`

	Tokens map[string]string `yaml:"tokens"`

	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`

	UserHeader   string `yaml:"user_header"`
	EmailHeader  string `yaml:"email_header"`
	SecretHeader string `yaml:"secret_header"`
	Secret       string `yaml:"secret"`
}

func (c *Config) registerAuthorizer(f *configFile) error {
	for _, a := range f.Authorizers {
		switch strings.ToLower(a.Type) {
		case "static":
			p, err := static.New(a.Tokens)

			if err != nil {
				return err
			}

			c.Authorizers = append(c.Authorizers, p)

		case "oidc":
			p, err := oidc.New(context.Background(), a.Issuer, a.Audience)

			if err != nil {
				return err
			}

			c.Authorizers = append(c.Authorizers, p)

		case "header":
			p, err := header.New(
				header.WithUserHeader(a.UserHeader),
				header.WithEmailHeader(a.EmailHeader),
				header.WithSecret(a.SecretHeader, a.Secret),
			)

			if err != nil {
				return err
			}

			c.Authorizers = append(c.Authorizers, p)

		default:
			return errors.New("invalid authorizer type: " + a.Type)
		}
	}

	return nil
}
