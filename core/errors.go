package core

import "github.com/pkg/errors"

var (
	// ErrPermissionDenied is returned whenever a resolved principal fails an
	// ownership check. Denials are surfaced, never silently dropped.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDuplicateKey is the user-safe translation of a store-level unique
	// constraint violation. The raw constraint identifier never leaves the
	// storage layer.
	ErrDuplicateKey = errors.New("this data already exists")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
