package otel

import (
	"context"
	"errors"

	"github.com/adrianliechti/murmur/pkg/auth"
	"github.com/adrianliechti/murmur/pkg/provider"

	"go.opentelemetry.io/otel/attribute"
)

type KeyValue = attribute.KeyValue

func String(key string, val string) KeyValue {
	return attribute.String(key, val)
}

func KeyValues(attrs ...[]KeyValue) []KeyValue {
	var result []KeyValue

	for _, a := range attrs {
		result = append(result, a...)
	}

	return result
}

func EndUserAttrs(ctx context.Context) []KeyValue {
	var attrs []KeyValue

	if user, ok := ctx.Value(auth.UserContextKey).(string); ok && user != "" {
		attrs = append(attrs, attribute.String("enduser.id", user))
	}

	if email, ok := ctx.Value(auth.EmailContextKey).(string); ok && email != "" {
		attrs = append(attrs, attribute.String("enduser.email", email))
	}

	return attrs
}

func errorType(err error) string {
	switch {
	case errors.Is(err, provider.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, provider.ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, provider.ErrEncoding):
		return "encoding_error"
	case errors.Is(err, provider.ErrModel):
		return "model_error"
	}

	return "error"
}
