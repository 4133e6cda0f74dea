package provider

import (
	"errors"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrModel             = errors.New("model error")
	ErrEncoding          = errors.New("encoding error")
)
