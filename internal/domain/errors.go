package domain

import "errors"

var (
	ErrMalformedLine   = errors.New("malformed json line")
	ErrMetadataMissing = errors.New("metadata file missing")
	ErrInvalidConfig   = errors.New("invalid config")
)
