package apperr

import (
	"errors"
	"fmt"
)

// Sentinel failure categories surfaced to the caller. Handlers map these to
// 404, 400 and 403 respectively; anything else is a 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrAccessDenied = errors.New("access denied")
)

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func AccessDeniedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrAccessDenied)...)
}
