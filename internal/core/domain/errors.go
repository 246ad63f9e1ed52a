package domain

import "sleuth/internal/platform/errors"

// Domain validation errors. Each wraps a platform sentinel so transport
// layers can map it to a status code.
var (
	ErrEmptyUsername   = errors.Wrap(errors.ErrInvalidInput, "username cannot be empty")
	ErrInvalidUsername = errors.Wrap(errors.ErrInvalidInput, "invalid username")
	ErrUnknownTool     = errors.Wrap(errors.ErrNotFound, "unknown tool")
	ErrInvalidFilename = errors.Wrap(errors.ErrInvalidInput, "invalid filename")
)
