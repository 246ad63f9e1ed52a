package domain

import (
	"fmt"
	"strings"

	"sleuth/internal/platform/validator"
)

// NormalizeUsername trims whitespace and a leading "@".
func NormalizeUsername(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}

// ValidateUsername rejects values that could not be a handle or that a CLI
// would parse as a flag.
func ValidateUsername(s string) error {
	if s == "" {
		return ErrEmptyUsername
	}
	if !validator.IsUsername(s) {
		return fmt.Errorf("%w: %q", ErrInvalidUsername, s)
	}
	return nil
}
