// Package apperr holds the error kinds shared by the repository, service and
// API layers. Callers match them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage error")
	ErrEnrichment   = errors.New("enrichment error")
	ErrNotification = errors.New("notification error")
)

func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return wrap(ErrUnauthorized, format, args...)
}

func Storage(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, fmt.Sprintf(format, args...), err)
}

func Enrichment(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrEnrichment, fmt.Sprintf(format, args...), err)
}

func Notification(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrNotification, fmt.Sprintf(format, args...), err)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
